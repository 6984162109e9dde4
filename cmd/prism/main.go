package main

import (
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"github.com/lukaszgryglicki/prisms2d/internal/live"
	"github.com/lukaszgryglicki/prisms2d/internal/prism"
)

func main() {
	prism.Debug = os.Getenv("DEBUG") != ""
	prism.PNG = os.Getenv("PNG") != ""
	prism.Record = os.Getenv("RECORD") != ""
	prism.GIF = os.Getenv("GIF") != ""
	serve := os.Getenv("SERVE")
	profile := os.Getenv("PROFILE") != ""
	if profile {
		f, err := os.Create("cpu.out")
		if err != nil {
			panic(err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			panic(err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	cfg := "scenes/prism.json"
	if len(os.Args) > 1 {
		cfg = os.Args[1]
	}
	var err error
	if serve != "" {
		err = runLive(cfg, serve)
	} else {
		err = prism.Run(cfg)
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// runLive serves the scene over websockets until the listener fails.
func runLive(cfgPath, addr string) error {
	cfg, scene, tracer, err := prism.Setup(cfgPath)
	if err != nil {
		return err
	}
	wavelengths := cfg.WavelengthList()
	var rec *prism.Recorder
	if prism.Record {
		if rec, err = prism.NewRecorder(cfg.SessionDir(time.Now()), scene, wavelengths, nil); err != nil {
			return err
		}
		defer rec.Close()
	}
	srv, err := live.NewServer(scene, tracer, wavelengths, rec)
	if err != nil {
		return err
	}
	return srv.ListenAndServe(addr)
}
