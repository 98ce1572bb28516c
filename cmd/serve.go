package cmd

import (
	"context"
	"log"
	"os"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/profile-optimizer/internal/httpapi"
	"github.com/spigell/profile-optimizer/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the OptimizeProfile function over HTTP",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "", "address to listen on (default is all interfaces)")
	serveCmd.Flags().String("port", "", "port to listen on (default is $PORT or 8080)")

	viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}

func serve() {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	// The public function only serves fixture dates.
	p, err := newPipeline(ctx, config, false, logger)
	if err != nil {
		logger.Fatal("preparing the pipeline", zap.Error(err))
	}

	httpapi.Register(httpapi.New(p, config.Server.Handler(), logger))

	// Serve the function at / like the hosted runtime does.
	if os.Getenv("FUNCTION_TARGET") == "" {
		_ = os.Setenv("FUNCTION_TARGET", httpapi.FunctionName)
	}

	logger.Info("serving function",
		zap.String("function", httpapi.FunctionName),
		zap.String("host", config.Server.Host),
		zap.String("port", config.Server.Port),
		zap.String("version", version),
	)

	if err := funcframework.StartHostPort(config.Server.Host, config.Server.Port); err != nil {
		logger.Fatal("serving function", zap.Error(err))
	}
}
