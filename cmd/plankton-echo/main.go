// plankton-echo demonstrates the rpc package end to end: it starts a
// Service with an echo method and a fallback, connects it to a client
// over an in-memory bytestream.RingBuffer pair, sends one request, and
// logs the round trip.
package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/goto-10/plankton/bytestream"
	"github.com/goto-10/plankton/rpc"
	"github.com/goto-10/plankton/variant"
)

func initLogger(level string) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	return zerolog.New(output).Level(parsed).With().Timestamp().Str("app", "plankton-echo").Logger()
}

func main() {
	configPath := "cmd/plankton-echo/config.toml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	cfg, err := LoadConfig(configPath)
	if err != nil {
		cfg = DefaultConfig()
	}
	log := initLogger(cfg.LogLevel)
	log.Info().Str("default_charset", cfg.DefaultCharset).Msg("starting plankton-echo")

	arena := variant.NewArena()
	service := rpc.NewService()
	service.Log = log
	service.RegisterMethod("echo", func(args variant.Variant, respond func(rpc.OutgoingResponse)) {
		respond(rpc.Success(args.ArrayGet(0)))
	})
	service.SetFallback(func(request *rpc.IncomingRequest, respond func(rpc.OutgoingResponse)) {
		log.Warn().Str("selector", request.SelectorName()).Msg("no method registered for selector")
		respond(rpc.Failure(variant.ExternalString([]byte("unknown selector"))))
	})

	clientToServer := bytestream.NewRingBuffer(1 << 14)
	serverToClient := bytestream.NewRingBuffer(1 << 14)

	server := rpc.NewStreamServiceConnector(clientToServer, serverToClient, arena,
		rpc.WithLogger(log), rpc.WithObserver(rpc.NewTracingObserver(log)))
	client := rpc.NewStreamServiceConnector(serverToClient, clientToServer, arena,
		rpc.WithLogger(log))

	errs := make(chan error, 2)
	go func() { errs <- server.Init(service.Handler()) }()
	go func() { errs <- client.Init(nil) }()
	for i := 0; i < 2; i++ {
		if err := <-errs; err != nil {
			log.Fatal().Err(err).Msg("failed to initialize connector")
		}
	}
	go server.ProcessAllMessages()
	go client.ProcessAllMessages()

	args := arena.NewArray(1)
	args.ArrayAdd(arena.NewStringFrom([]byte("hello, plankton")))
	request := rpc.NewOutgoingRequest(variant.Null(), arena.NewStringFrom([]byte("echo")), args)

	promise, err := client.SendRequest(request)
	if err != nil {
		log.Fatal().Err(err).Msg("send_request failed")
	}

	select {
	case <-promise.Done():
	case <-time.After(5 * time.Second):
		log.Fatal().Msg("timed out waiting for echo response")
	}
	value, ok := promise.Wait()
	log.Info().Bool("success", ok).Str("value", string(value.StringChars())).Msg("echo response")

	server.Close()
	client.Close()
}
