// Package sse streams status indicator changes and notices to connected
// clients as Server-Sent Events.
//
// # Architecture
//
//   - Hub: registry of connected clients and the broadcast loop
//   - Bridge: host.Listener and host.Notifier that publish to a Hub
//   - ServeSSE: HTTP handler body for one client connection
//   - Component: runs the Hub under the component registry
//
// # Usage
//
//	hub := sse.NewHub(log)
//	go hub.Run()
//	local.AddListener(sse.NewBridge(hub))
//	router.GET("/events", func(c *gin.Context) {
//	    sse.ServeSSE(hub, c.Writer, c.Request, uuid.NewString())
//	})
package sse
