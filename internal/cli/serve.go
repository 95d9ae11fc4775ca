package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"modelsvc/internal/app"
	"modelsvc/internal/config"
)

func newServeCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Initialize the model and serve the HTTP API",
		Example: "  modelsvc serve --addr :8080 --artifact ./models\n  MODELSVC_MAX_CONCURRENCY=4 modelsvc serve",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			md, err := loadMetadata(rt.cfg)
			if err != nil {
				return err
			}
			factory, err := buildFactory(rt.reg, rt.cfg, md)
			if err != nil {
				return err
			}
			a, err := app.New(factory, app.WithConfig(rt.cfg), app.WithMetadata(md), app.WithLogger(rt.log))
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.Run(ctx)
		},
	}
	f := cmd.Flags()
	f.String("addr", "", "HTTP listen address (defaults "+config.DefaultAddr+")")
	f.Int64("max-body-bytes", 0, "Maximum request body size in bytes (0 = 1 MiB)")
	f.Duration("predict-timeout", 0, "Per-prediction deadline (0 = longest model.yaml timeout)")
	f.Int("max-concurrency", 0, "Concurrent predictions (0 = unlimited)")
	f.Int("max-queue-depth", 0, "Requests allowed to wait for a prediction slot")
	f.Duration("max-wait", 0, "How long a queued request waits before 429")
	f.Duration("shutdown-grace", 0, "Time allowed for in-flight requests on shutdown")
	f.String("request-log", "", "Per-request log level: off|error|info|debug")
	f.Float64("rate-limit-rps", 0, "Token bucket rate for /predict and /run (0 = off)")
	f.Int("rate-limit-burst", 0, "Token bucket burst")
	f.Bool("cors", false, "Enable CORS")
	f.StringSlice("cors-origins", nil, "Allowed CORS origins")
	f.StringSlice("cors-methods", nil, "Allowed CORS methods")
	f.StringSlice("cors-headers", nil, "Allowed CORS headers")
	return cmd
}
