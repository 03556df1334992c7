package main

import (
	"os"

	"github.com/ChiaYuChang/pwsscraper/internal/global"
	"github.com/ChiaYuChang/pwsscraper/internal/scrapers"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	global.Logger = global.InitBaseLogger()

	var configPath, station, output string
	flag.StringVarP(&configPath, "config", "c", "", "Path to the configuration file")
	flag.StringVarP(&station, "station", "s", "", "Name of the station to download (default: the first configured station)")
	flag.StringVarP(&output, "output", "o", scrapers.DefaultSnapshotPath, "Where to save the page")
	flag.Parse()

	cfg, err := global.LoadConfig(viper.New(), configPath)
	if err != nil {
		global.Logger.Fatal().Err(err).Msg("Failed to load config")
	}

	target := cfg.Stations[0]
	if station != "" {
		found := false
		for _, s := range cfg.Stations {
			if s.Name == station {
				target, found = s, true
				break
			}
		}
		if !found {
			global.Logger.Fatal().Str("station", station).Msg("Unknown station")
		}
	}

	global.Logger.Info().
		Str("station", target.Name).
		Str("url", target.URL).
		Str("output", output).
		Msg("Downloading dashboard page")

	err = scrapers.SaveSnapshot(target.URL, output, cfg.HTTP.Timeout, scrapers.Headers(cfg.HTTP.UserAgent))
	if err != nil {
		global.Logger.Error().Err(err).Msg("Failed to save snapshot")
		os.Exit(1)
	}
	global.Logger.Info().Str("output", output).Msg("Snapshot saved")
}
