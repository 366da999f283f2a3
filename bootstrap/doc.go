// Package bootstrap runs the daemon lifecycle.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(vaultComponent)
//	app.RegisterComponent(pluginComponent)
//	app.RegisterComponent(serverComponent)
//	app.OnReady(func(ctx context.Context) error { ... })
//	return app.Run(ctx)
//
// Components start in registration order and stop in reverse. After the
// ready check the component summary is printed.
package bootstrap
