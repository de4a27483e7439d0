package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jengzang/smartcity-backend-go/internal/apiclient"
	"github.com/jengzang/smartcity-backend-go/internal/demostore"
)

const defaultAPIURL = "http://127.0.0.1:8000"

// app carries resolved settings to subcommands
type app struct {
	v       *viper.Viper
	cfgFile string
}

func (a *app) client() *apiclient.Client {
	var opts []apiclient.Option
	if tok := a.v.GetString("token"); tok != "" {
		opts = append(opts, apiclient.WithToken(tok))
	}
	return apiclient.New(a.v.GetString("api-url"), opts...)
}

func (a *app) store() (*demostore.Store, error) {
	return demostore.New(a.v.GetString("home"))
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "smartcityctl",
		Short:         "Smart City Shymkent complaints client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (yaml, json or toml)")
	pf.String("api-url", defaultAPIURL, "complaints API base URL")
	pf.String("home", demostore.DefaultDir(), "directory for local demo data and preferences")
	pf.String("token", "", "bearer token for /admin endpoints")

	a.v.SetEnvPrefix("SMARTCITY")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	for _, key := range []string{"api-url", "home", "token"} {
		_ = a.v.BindPFlag(key, pf.Lookup(key))
	}

	root.AddCommand(
		newReportCmd(a),
		newListCmd(a),
		newStatusCmd(a),
		newStatsCmd(a),
		newDashboardCmd(a),
		newMapCmd(a),
		newHotspotsCmd(a),
		newDemoCmd(a),
		newPrefsCmd(a),
		newTokenCmd(a),
	)
	return root
}

func (a *app) loadConfig() error {
	if a.cfgFile == "" {
		return nil
	}
	a.v.SetConfigFile(a.cfgFile)
	if err := a.v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", a.cfgFile, err)
	}
	return nil
}
