// Package bootstrap runs a CLI task through a uniform lifecycle: config
// defaults and validation, logger setup, start hooks, configure callbacks,
// the task, and stop hooks within a graceful timeout.
//
// Interrupts go to an optional handler first, so a running generation can be
// cancelled without ending the process:
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*AppConfig]) error {
//	    a.SetInterruptHandler(ctrl.Cancel)
//	    return nil
//	})
//	err = app.RunTask(ctx, run)
package bootstrap
