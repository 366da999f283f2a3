// Package plugin wires the voice notes feature into a host.
//
// Start loads the persisted settings, builds the backend client and the
// recording controller, registers the recording commands and checks that
// the backend is up. SaveSettings persists new settings, rebuilds the
// backend client and pushes the model settings to the backend.
//
//	p := plugin.New(plugin.Options{
//	    Host:     h,
//	    Settings: config.NewSettingsStore("~/.config/voicenotes/data.json"),
//	    Store:    store,
//	})
//	if err := p.Start(ctx); err != nil {
//	    return err
//	}
//	defer p.Stop(ctx)
package plugin
