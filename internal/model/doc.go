// Package model defines the wire types exchanged with the relay controller and
// the client-side view of relay state.
//
// Conventions:
//   - Relays are addressed by 0-based integer index, identical on the wire and in the UI
//   - Every server "states" message is a full snapshot and replaces prior state
//   - The endpoint is always ws://<host>/ws
package model
