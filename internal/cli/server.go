package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"github.com/LeJamon/ilpconnectord/internal/adminapi/rpcbridge"
	"github.com/LeJamon/ilpconnectord/internal/config"
	"github.com/LeJamon/ilpconnectord/internal/obs"
)

var log = obs.New("ilpnoded")

const shutdownGrace = 5 * time.Second

func init() {
	rootCmd.AddCommand(serverCmd)
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the ilpnoded connector core",
	Run:   runServer,
}

func runServer(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configFile)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	n := buildNode(cfg, nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpServer := &http.Server{
		Addr:    cfg.AdminAPI.ListenAddress,
		Handler: n.admin.Handler(),
	}
	go func() {
		log.Infof("admin API listening on %s", cfg.AdminAPI.ListenAddress)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("admin API server: %v", err)
		}
	}()

	var grpcServer *grpc.Server
	if cfg.RPCBridge.Enabled {
		lis, err := net.Listen("tcp", cfg.RPCBridge.ListenAddress)
		if err != nil {
			log.Fatalf("listening for rpc bridge on %s: %v", cfg.RPCBridge.ListenAddress, err)
		}
		grpcServer = grpc.NewServer()
		rpcbridge.Register(grpcServer, n.bridge)
		go func() {
			log.Infof("rpc bridge listening on %s", cfg.RPCBridge.ListenAddress)
			if err := grpcServer.Serve(lis); err != nil {
				log.Errorf("rpc bridge server: %v", err)
			}
		}()
	}

	go func() {
		if err := n.broadcaster.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Errorf("ccp broadcaster stopped: %v", err)
		}
	}()

	<-ctx.Done()
	log.Infof("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Errorf("admin API shutdown: %v", err)
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
}
