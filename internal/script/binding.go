package script

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	lua "github.com/yuin/gopher-lua"

	"github.com/hectorbennett/command-pattern/internal/engine/graph"
)

// installGraphModule exposes the graph store to scripts as a global
// "graph" table. Mutations raise Lua errors on failure, which surface
// as Go errors from the calling command phase.
func installGraphModule(L *lua.LState, g *graph.Graph) {
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"add_node": func(L *lua.LState) int {
			n := graph.NewNode(L.CheckInt(1), L.CheckInt(2))
			if err := g.AddNode(n); err != nil {
				L.RaiseError("%s", err.Error())
			}
			return 0
		},
		"remove_node": func(L *lua.LState) int {
			n := graph.NewNode(L.CheckInt(1), L.CheckInt(2))
			if err := g.RemoveNode(n); err != nil {
				L.RaiseError("%s", err.Error())
			}
			return 0
		},
		"has_node": func(L *lua.LState) int {
			n := graph.NewNode(L.CheckInt(1), L.CheckInt(2))
			L.Push(lua.LBool(g.HasNode(n)))
			return 1
		},
		"add_edge": func(L *lua.LState) int {
			e := graph.NewEdge(
				graph.NewNode(L.CheckInt(1), L.CheckInt(2)),
				graph.NewNode(L.CheckInt(3), L.CheckInt(4)),
			)
			if err := g.AddEdge(e); err != nil {
				L.RaiseError("%s", err.Error())
			}
			return 0
		},
		"remove_edge": func(L *lua.LState) int {
			e := graph.NewEdge(
				graph.NewNode(L.CheckInt(1), L.CheckInt(2)),
				graph.NewNode(L.CheckInt(3), L.CheckInt(4)),
			)
			if err := g.RemoveEdge(e); err != nil {
				L.RaiseError("%s", err.Error())
			}
			return 0
		},
		"has_edge": func(L *lua.LState) int {
			e := graph.NewEdge(
				graph.NewNode(L.CheckInt(1), L.CheckInt(2)),
				graph.NewNode(L.CheckInt(3), L.CheckInt(4)),
			)
			L.Push(lua.LBool(g.HasEdge(e)))
			return 1
		},
		"node_count": func(L *lua.LState) int {
			L.Push(lua.LNumber(g.NodeCount()))
			return 1
		},
		"edge_count": func(L *lua.LState) int {
			L.Push(lua.LNumber(g.EdgeCount()))
			return 1
		},
		"nodes": func(L *lua.LState) int {
			t := L.NewTable()
			for i, n := range g.Nodes() {
				nt := L.NewTable()
				nt.RawSetString("x", lua.LNumber(n.X))
				nt.RawSetString("y", lua.LNumber(n.Y))
				t.RawSetInt(i+1, nt)
			}
			L.Push(t)
			return 1
		},
		"edges": func(L *lua.LState) int {
			t := L.NewTable()
			for i, e := range g.Edges() {
				et := L.NewTable()
				from := L.NewTable()
				from.RawSetString("x", lua.LNumber(e.From.X))
				from.RawSetString("y", lua.LNumber(e.From.Y))
				to := L.NewTable()
				to.RawSetString("x", lua.LNumber(e.To.X))
				to.RawSetString("y", lua.LNumber(e.To.Y))
				et.RawSetString("from", from)
				et.RawSetString("to", to)
				t.RawSetInt(i+1, et)
			}
			L.Push(t)
			return 1
		},
		"set_attr": func(L *lua.LState) int {
			n := graph.NewNode(L.CheckInt(1), L.CheckInt(2))
			path := L.CheckString(3)
			value := toGo(L.CheckAny(4))

			doc := g.AttrJSON(n)
			if doc == nil {
				doc = []byte(`{}`)
			}
			next, err := sjson.SetBytes(doc, path, value)
			if err != nil {
				L.RaiseError("set attr %q: %s", path, err.Error())
				return 0
			}
			if err := g.SetAttrJSON(n, next); err != nil {
				L.RaiseError("set attr %q: %s", path, err.Error())
			}
			return 0
		},
		"attr": func(L *lua.LState) int {
			n := graph.NewNode(L.CheckInt(1), L.CheckInt(2))
			path := L.CheckString(3)

			result := g.Attr(n, path)
			switch result.Type {
			case gjson.String:
				L.Push(lua.LString(result.Str))
			case gjson.Number:
				L.Push(lua.LNumber(result.Num))
			case gjson.True:
				L.Push(lua.LTrue)
			case gjson.False:
				L.Push(lua.LFalse)
			case gjson.Null:
				// Also the zero Result for a missing path
				L.Push(lua.LNil)
			default:
				// Objects and arrays come back as raw JSON text
				L.Push(lua.LString(result.Raw))
			}
			return 1
		},
	})
	L.SetGlobal("graph", mod)
}
