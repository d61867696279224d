// Package script provides Lua-defined graph commands.
//
// This package wraps the gopher-lua library to let users extend the
// command set without recompiling. A script registers a named command
// with an execute and a rollback function:
//
//	command.register{
//	    name = "cross",
//	    description = "Add a node with edges from its axis neighbors",
//	    execute = function(args)
//	        local x, y = args[1], args[2]
//	        graph.add_node(x, y)
//	        graph.add_edge(x - 1, y, x, y)
//	        graph.add_edge(x, y - 1, x, y)
//	    end,
//	    rollback = function(args)
//	        local x, y = args[1], args[2]
//	        graph.remove_edge(x, y - 1, x, y)
//	        graph.remove_edge(x - 1, y, x, y)
//	        graph.remove_node(x, y)
//	    end,
//	}
//
// The host turns each registration into an undoable command. Script
// commands journal under their name and arguments, so replaying a
// session needs the same scripts loaded first.
//
// # Sandbox
//
// Scripts run with a restricted library set: base, table, string, and
// math only. io, os, debug, and package are intentionally not opened.
//
// # The graph module
//
// Scripts mutate the store through a global graph table:
//
//	graph.add_node(x, y)
//	graph.remove_node(x, y)
//	graph.has_node(x, y) -> bool
//	graph.add_edge(x1, y1, x2, y2)
//	graph.remove_edge(x1, y1, x2, y2)
//	graph.has_edge(x1, y1, x2, y2) -> bool
//	graph.node_count() -> n
//	graph.edge_count() -> n
//	graph.nodes() -> { {x=..., y=...}, ... }
//	graph.edges() -> { {from={x=..., y=...}, to={x=..., y=...}}, ... }
//	graph.set_attr(x, y, path, value)
//	graph.attr(x, y, path) -> value or nil
//
// Failed mutations raise Lua errors, which surface as Go errors from
// the running command phase.
//
// # Reloading
//
// WatchDir reloads scripts when their files change, replacing the
// commands they register. Commands already sitting in a history log
// keep running against the registrations current at execution time.
package script
