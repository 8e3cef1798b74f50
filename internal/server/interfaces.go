package server

// Server is the lifecycle contract for the relay's ingress server.
//
// Implementations block in [RunServer] until shutdown is requested and
// release resources in [Shutdown]. The batch worker runs outside this
// contract so in-flight batches are not tied to the HTTP lifecycle.
type Server interface {
	// RunServer starts serving requests and blocks until the server stops.
	RunServer()

	// Shutdown gracefully stops the server and frees associated resources.
	Shutdown()
}
