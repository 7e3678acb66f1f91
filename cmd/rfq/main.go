package main

import (
	"fmt"
	"log"
	"os"

	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "rfq",
	Short: "B2B quotation negotiation service",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// 加载 .env 文件
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found, using environment variables")
		}
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml (default ./configs/config.yaml)")
	rootCmd.Version = fmt.Sprintf("%s (built %s)", Version, BuildTime)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig 加载配置，失败直接退出
func loadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}
