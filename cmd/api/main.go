package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"streetpaws/internal/platform/config"
	"streetpaws/internal/platform/logger"
)

// @title StreetPaws API
// @version 1.0
// @description Registro de animales callejeros, vacunas, ayuda y etiquetas QR.
// @BasePath /
func main() {
	v, err := config.NewViper()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := rootCommand(v).Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCommand(v *viper.Viper) *cobra.Command {
	var cfgFile string

	serve := serveCommand(v, &cfgFile)

	root := &cobra.Command{
		Use:          "streetpaws",
		Short:        "StreetPaws API, caching gateway and QR tools",
		SilenceUsage: true,
		// sin subcomando: serve
		RunE: serve.RunE,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json, toml)")
	root.PersistentFlags().String("log-level", "", "debug|info|warn|error")
	root.PersistentFlags().String("log-format", "", "text|json")
	for flag, key := range map[string]string{"log-level": "log.level", "log-format": "log.format"} {
		if err := v.BindPFlag(key, root.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}

	root.AddCommand(serve, gatewayCommand(v, &cfgFile), qrCommand())
	return root
}

// loadConfig lee config + logger para los comandos que levantan procesos.
func loadConfig(v *viper.Viper, cfgFile string) (config.Config, logger.Logger, error) {
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return config.Config{}, nil, err
	}
	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})
	return cfg, log, nil
}

// bindFlags enlaza flags locales del comando a keys de viper; el flag gana sobre env y archivo.
func bindFlags(v *viper.Viper, cmd *cobra.Command, flagToKey map[string]string) {
	for flag, key := range flagToKey {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", flag, err))
		}
	}
}
