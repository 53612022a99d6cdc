// Package ingress receives keystrokes from an external device over TCP.
//
// A Listener binds a single local address and services one connection at a
// time. Every byte read from the active connection is decoded into a key
// event and handed to the dispatcher in arrival order. When the peer closes
// the connection, or a read fails, the session is discarded and the
// listener goes back to accepting. The buffer keeps its contents across
// sessions.
//
// Binding is fatal: Listen reports failures as a *BindError wrapping
// ErrBind and never retries. Serve runs until its context is cancelled or
// Close is called; both close the listening socket and the active
// connection, which unblocks any pending Accept or Read.
//
// Basic usage:
//
//	l := ingress.New(ingress.DefaultAddress, disp,
//	    ingress.WithLogger(logger),
//	    ingress.WithPublisher(bus),
//	)
//	if err := l.Listen(); err != nil {
//	    return err
//	}
//	go l.Serve(ctx)
package ingress
