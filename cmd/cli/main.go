package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/marcelsud/webhook-relay/config"
	"github.com/marcelsud/webhook-relay/endpoint"
	"github.com/marcelsud/webhook-relay/endpoint/file"
	"github.com/marcelsud/webhook-relay/endpoint/redis"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

/* cli - offline administration of the endpoint store
 * Works on the store configured for the API; a running relay does not see
 * changes until it is restarted.
 */

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool
	var registry *endpoint.Registry
	var repo endpoint.Repository

	root := &cobra.Command{
		Use:          "relayctl",
		Short:        "Manage webhook relay endpoints",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.GetConfig()
			if err != nil {
				return err
			}
			logger := zerolog.Nop()
			if verbose {
				logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
			}
			repo, err = openRepository(cfg)
			if err != nil {
				return err
			}
			registry = endpoint.NewRegistry(repo, logger)
			registry.Load(cmd.Context())
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if repo == nil {
				return nil
			}
			return repo.Close(context.Background())
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log registry activity to stderr")

	list := &cobra.Command{
		Use:   "list",
		Short: "List registered endpoints",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printEndpoints(cmd, registry.List(cmd.Context()))
		},
	}

	var active bool
	add := &cobra.Command{
		Use:   "add URL NAME",
		Short: "Register a new endpoint",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoints, err := registry.Register(cmd.Context(), args[0], args[1], active)
			if err != nil {
				return err
			}
			printEndpoints(cmd, endpoints)
			return nil
		},
	}
	add.Flags().BoolVar(&active, "active", true, "receive fan-out deliveries immediately")

	setStatus := func(use, short string, value bool) *cobra.Command {
		return &cobra.Command{
			Use:   use + " ID",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				e, err := registry.SetActive(cmd.Context(), args[0], value)
				if err != nil {
					return err
				}
				printEndpoints(cmd, []endpoint.Endpoint{e})
				return nil
			},
		}
	}

	remove := &cobra.Command{
		Use:   "remove ID",
		Short: "Delete an endpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoints, err := registry.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printEndpoints(cmd, endpoints)
			return nil
		},
	}

	root.AddCommand(
		list,
		add,
		setStatus("activate", "Include an endpoint in fan-out", true),
		setStatus("deactivate", "Exclude an endpoint from fan-out", false),
		remove,
	)
	return root
}

func openRepository(cfg *config.Config) (endpoint.Repository, error) {
	if cfg.StoreDriver == config.StoreRedis {
		return redis.NewRepository(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisKey)
	}
	return file.NewRepository(cfg.EndpointsFile), nil
}

func printEndpoints(cmd *cobra.Command, endpoints []endpoint.Endpoint) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tACTIVE\tURL")
	for _, e := range endpoints {
		fmt.Fprintf(w, "%s\t%s\t%t\t%s\n", e.ID, e.Name, e.Active, e.URL)
	}
	w.Flush()
}
