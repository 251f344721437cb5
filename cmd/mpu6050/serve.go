package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Solutions16/sol16-MPU6050/config"
	"github.com/Solutions16/sol16-MPU6050/imuweb"
	"github.com/Solutions16/sol16-MPU6050/modbussink"
	"github.com/Solutions16/sol16-MPU6050/poller"
	"github.com/Solutions16/sol16-MPU6050/sensors"
)

var serveCmd = &cobra.Command{
	Use:        "serve",
	SuggestFor: []string{"ru", "ser"},
	Short:      "poll the device and publish readings",
	Long: `serve polls the device every poll.interval_ms and publishes each reading
to the enabled outputs: the web API and websocket stream (web.enabled or
--listen), a Modbus TCP target (modbus.enabled) and a CSV file (log.csv or --csv).
`,
	Example: `  mpu6050 serve --config=/path/to/config.yaml
  mpu6050 serve --listen :8000 --csv /tmp/imu.csv`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("listen") {
		cfg.Web.Enabled = true
	}

	mpu, closer, err := openDevice(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	p, err := poller.New(mpu, cfg.PollInterval(), cfg.Poll.Buffer)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	var sinks []func(r *poller.Reading)

	if cfg.Web.Enabled {
		room := imuweb.NewRoom()
		go room.Run(ctx)
		if err := startWeb(ctx, cfg, p, room); err != nil {
			return err
		}
		sinks = append(sinks, func(r *poller.Reading) {
			msg, err := imuweb.Marshal(r)
			if err != nil {
				log.Warnln("serve: error marshalling reading:", err)
				return
			}
			room.Broadcast(msg)
		})
	}

	if cfg.Modbus.Enabled {
		sink, err := modbussink.New(modbussink.Config{
			Endpoint: cfg.Modbus.Endpoint,
			UnitID:   uint8(cfg.Modbus.UnitID),
			Address:  uint16(cfg.Modbus.Address),
			Timeout:  time.Duration(cfg.Modbus.TimeoutMS) * time.Millisecond,
		})
		if err != nil {
			return err
		}
		defer sink.Close()
		log.Infoln("serve: writing readings to modbus target", cfg.Modbus.Endpoint)
		sinks = append(sinks, func(r *poller.Reading) {
			if err := sink.Write(r); err != nil {
				log.Warnln("serve: modbus write:", err)
			}
		})
	}

	if cfg.Log.CSV != "" {
		l, err := sensors.CreateEventLogger(cfg.Log.CSV)
		if err != nil {
			return err
		}
		defer l.Close()
		log.Infoln("serve: logging readings to", cfg.Log.CSV)
		sinks = append(sinks, func(r *poller.Reading) {
			if r.Err != nil {
				return
			}
			if err := l.Log(r.Accel, r.Gyro, r.Temp); err != nil {
				log.Warnln("serve: csv log:", err)
			}
		})
	}

	if len(sinks) == 0 {
		log.Warnln("serve: no outputs enabled, readings are only polled")
	}

	go p.Run(ctx)
	log.Infof("serve: polling every %s", cfg.PollInterval())
	for r := range p.CBuf {
		for _, sink := range sinks {
			sink(r)
		}
	}
	log.Infoln("serve: stopped")
	return nil
}

func startWeb(ctx context.Context, cfg config.Config, src imuweb.Source, room *imuweb.Room) error {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:    cfg.Web.Listen,
		Handler: imuweb.NewRouter(src, room),
	}
	errc := make(chan error, 1)
	go func() {
		log.Infoln("serve: web API listening on", cfg.Web.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	// Report an immediate bind failure; later errors are only logged.
	select {
	case err := <-errc:
		return err
	case <-time.After(100 * time.Millisecond):
	}
	go func() {
		if err := <-errc; err != nil {
			log.Errorln("serve: web API:", err)
		}
	}()
	return nil
}
