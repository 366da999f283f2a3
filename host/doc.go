// Package host models the capabilities an editor gives to the voice notes
// plugin: command registration, a status bar indicator and user notices.
//
// Plugin code depends only on the Host interface. Local is the in-process
// implementation used by the daemon; the control server exposes it over
// HTTP (see host/httphost) and the event stream mirrors its changes.
package host
