package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ChiaYuChang/pwsscraper/internal/cfggen"
	"github.com/ChiaYuChang/pwsscraper/internal/global"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	global.Logger = global.InitBaseLogger()

	var envFile, output, format string
	flag.StringVarP(&envFile, "env", "e", ".env", "Path to the .env file with PWS_* variables")
	flag.StringVarP(&output, "output", "o", "configs/pwsscraper.yaml", "Path of the generated config")
	flag.StringVarP(&format, "format", "f", "", "Config format (default: output file extension)")
	flag.Parse()

	// PWS_* environment variables override the .env file
	src := viper.New()
	src.AutomaticEnv()
	src.SetConfigFile(envFile)
	src.SetConfigType("env")
	if err := src.ReadInConfig(); err != nil {
		global.Logger.Warn().
			Err(err).
			Str("file", envFile).
			Msg("Error reading .env file, using environment variables only")
	}

	gen := cfggen.NewCfgGen(src)
	if err := gen.AddAll(); err != nil {
		global.Logger.Fatal().Err(err).Msg("Failed to build config")
	}

	if format == "" {
		format = filepath.Ext(output)
		if len(format) > 0 {
			format = format[1:]
		}
	}

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		global.Logger.Fatal().Err(err).Str("dir", filepath.Dir(output)).Msg("Failed to create directory")
	}

	file, err := os.Create(output)
	if err != nil {
		global.Logger.Fatal().Err(err).Str("file", output).Msg("Failed to create output file")
	}
	defer file.Close()

	if err := gen.WriteTo(file, format); err != nil {
		global.Logger.Error().Err(err).Str("file", output).Msg("Failed to write config")
		return
	}
	fmt.Printf("Config successfully generated to %s\n", output)
}
