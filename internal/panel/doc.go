// Package panel is the user-facing side of the relay client.
//
// A View exposes a connection status indicator and one Control per relay,
// looked up by relay index. Board keeps that state in memory, Terminal renders
// it to a writer, and Console turns typed commands into toggle requests.
package panel
