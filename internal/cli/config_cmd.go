package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const redacted = "********"

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Inspect the resolved configuration",
		Annotations: map[string]string{annotationNoStore: "true"},
	}

	cmd.AddCommand(&cobra.Command{
		Use:         "show",
		Short:       "Print the configuration after files, env and flags are applied",
		Annotations: map[string]string{annotationNoStore: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *app.Config
			if cfg.HTTP.JWTSecret != "" {
				cfg.HTTP.JWTSecret = redacted
			}
			if app.JSON {
				return app.emit(cmd, cfg, nil)
			}
			out, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("encoding config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	})

	return cmd
}
