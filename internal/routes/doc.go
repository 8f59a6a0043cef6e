// Package routes provides centralized constants for the appliance HTTP API
// paths, shared by the client transport and the simulator so the two sides
// cannot drift apart.
package routes
