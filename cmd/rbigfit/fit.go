package main

import (
	"fmt"

	"github.com/cheggaaa/pb/v3"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jejjohnson/2019-rbig-rs/density"
	"github.com/jejjohnson/2019-rbig-rs/internal/config"
	"github.com/jejjohnson/2019-rbig-rs/internal/dataio"
	"github.com/jejjohnson/2019-rbig-rs/internal/report"
	"github.com/jejjohnson/2019-rbig-rs/rbig"
)

func init() {
	fitCmd.Flags().String("input", "", "CSV file with one sample per row")
	fitCmd.Flags().Bool("header", false, "skip the first CSV record")
	fitCmd.Flags().String("comma", ",", "CSV field delimiter")
	fitCmd.Flags().Int("subsample", density.DefaultSubsample, "maximum number of rows to fit on, -1 uses all rows and 0 the default")
	fitCmd.Flags().Uint64("random-state", density.DefaultRandomState, "seed of the subsampling step, 0 uses the default")
	fitCmd.Flags().String("plot", "", "write the residual information plot to this file")
	fitCmd.Flags().Bool("json", false, "print the fit summary in json format")
	fitCmd.Flags().Bool("progress", true, "show a progress bar while fitting")

	if err := viper.BindPFlags(fitCmd.Flags()); err != nil {
		log.WithError(err).Errorf("failed to bind local flags. please check the flag settings.")
	}

	RootCmd.AddCommand(fitCmd)
	RootCmd.AddCommand(configCmd)
}

var fitCmd = &cobra.Command{
	Use:   "fit [input.csv]",
	Short: "fit an RBIG model on a CSV file",
	Args:  cobra.MaximumNArgs(1),

	// SilenceUsage is an option to silence usage when an error occurs.
	SilenceUsage: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := effectiveConfig(args)
		if err != nil {
			return err
		}

		x, _, err := dataio.ReadCSVFile(cfg.Input, dataio.CSVOptions{
			Comma:  cfg.Delimiter(),
			Header: cfg.Header,
		})
		if err != nil {
			return err
		}
		rows, cols := x.Dims()

		var bar *pb.ProgressBar
		factory := func(hp density.Hyperparams) density.Model {
			m := density.DefaultFactory(hp).(*rbig.Model)
			if !cfg.Progress {
				return m
			}
			var tc float64
			bar = pb.Full.New(hp.Layers)
			bar.SetWriter(cmd.ErrOrStderr())
			bar.SetTemplateString(`{{ string . "tc" | green }} | {{counters . }} {{bar . }} {{etime . }}`)
			bar.Start()
			m.OnLayer = func(layer int, info float64) {
				tc += info
				bar.Set("tc", fmt.Sprintf("tc %.4f bits", tc))
				bar.Increment()
			}
			return m
		}

		model, err := density.FitRBIG(x, &density.Settings{
			Subsample:   cfg.Subsample,
			RandomState: cfg.RandomState,
			Factory:     factory,
		})
		if bar != nil {
			// Fitting usually converges well before the layer limit.
			bar.SetTotal(bar.Current())
			bar.Finish()
		}
		if err != nil {
			return err
		}

		seed := cfg.RandomState
		if seed == 0 {
			seed = density.DefaultRandomState
		}
		summary, err := report.Summarize(cfg.Input, rows, cols, seed, model.(*rbig.Model))
		if err != nil {
			return err
		}

		if cfg.Plot != "" {
			if err := report.SaveResidualPlot(cfg.Plot, summary.ResidualInfo); err != nil {
				return err
			}
			log.Infof("residual information plot written to %s", cfg.Plot)
		}

		if cfg.JSON {
			return report.WriteJSON(cmd.OutOrStdout(), summary)
		}
		report.WriteTable(cmd.OutOrStdout(), summary)
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "print the effective fit configuration",

	// SilenceUsage is an option to silence usage when an error occurs.
	SilenceUsage: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := mergeConfig()
		if err != nil {
			return err
		}
		out, err := cfg.Marshal()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

// mergeConfig loads the config file, if any, and applies the flags and
// environment variables that were set explicitly.
func mergeConfig() (*config.Config, error) {
	cfg := config.Default()
	if path := viper.GetString("config"); path != "" {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return nil, errors.Wrap(err, "load config")
		}
	}

	if viper.IsSet("input") {
		cfg.Input = viper.GetString("input")
	}
	if viper.IsSet("header") {
		cfg.Header = viper.GetBool("header")
	}
	if viper.IsSet("comma") {
		cfg.Comma = viper.GetString("comma")
	}
	if viper.IsSet("subsample") {
		cfg.Subsample = viper.GetInt("subsample")
	}
	if viper.IsSet("random-state") {
		cfg.RandomState = viper.GetUint64("random-state")
	}
	if viper.IsSet("plot") {
		cfg.Plot = viper.GetString("plot")
	}
	if viper.IsSet("json") {
		cfg.JSON = viper.GetBool("json")
	}
	if viper.IsSet("progress") {
		cfg.Progress = viper.GetBool("progress")
	}
	return cfg, nil
}

// effectiveConfig is mergeConfig with the positional input argument applied,
// validated.
func effectiveConfig(args []string) (*config.Config, error) {
	cfg, err := mergeConfig()
	if err != nil {
		return nil, err
	}
	if len(args) > 0 {
		cfg.Input = args[0]
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	log.WithField("config", fmt.Sprintf("%+v", *cfg)).Debug("effective config")
	return cfg, nil
}
