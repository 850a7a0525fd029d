// Package connection implements the relay panel's Connection Manager.
//
// The Connection Manager:
//   - Keeps exactly one WebSocket connection to the relay controller
//   - Reconnects after a fixed delay, forever, whenever the connection closes
//   - Applies "states" snapshots to the panel view
//   - Forwards toggle requests while the connection is open, drops them otherwise
package connection
