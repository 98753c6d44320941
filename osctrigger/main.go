// The osctrigger binary exposes a running playback engine to OSC control
// surfaces. It serves the demo show over UDP:
//
//	/encore/play <id>
//	/encore/stop <id> [fadeSeconds]
//	/encore/stopall [fadeSeconds]
//	/encore/volume <id> <level>
//	/encore/unduck
//	/encore/master <level>
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/hypebeast/go-osc/osc"
	"k8s.io/utils/clock"

	"github.com/robmorgan/encore/audio"
	"github.com/robmorgan/encore/config"
	"github.com/robmorgan/encore/engine"
	"github.com/robmorgan/encore/logger"
	"github.com/robmorgan/encore/show"
)

func printUsage() {
	fmt.Printf("Usage: %s PORT\n", os.Args[0])
}

func main() {
	if len(os.Args[1:]) != 1 {
		printUsage()
		os.Exit(1)
	}

	port, err := strconv.ParseInt(os.Args[1], 10, 32)
	if err != nil {
		fmt.Println(err)
		printUsage()
		os.Exit(1)
	}

	log := logger.GetProjectLogger()

	cfg, err := config.NewEncoreConfig()
	if err != nil {
		log.Fatal(err)
	}

	out, err := audio.NewSpeakerOutput(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer out.Close()

	graph := show.BuildDemoShow()
	eng := engine.New(cfg, clock.RealClock{}, out, graph)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go eng.Run(ctx, &wg)

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	server := &osc.Server{Addr: addr, Dispatcher: &Trigger{eng: eng, groups: graph, fade: cfg.DefaultStopFade}}

	fmt.Println("### Starting encore osc trigger")
	fmt.Printf("Listening via UDP on port %d...\n", port)

	if err := server.ListenAndServe(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
