// Command trailbot runs the trail agent's HTTP decision server.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/joho/godotenv"

	"github.com/yourusername/trailbot/pkg/api"
	"github.com/yourusername/trailbot/pkg/engine"
)

const version = "0.1.0"

// envString returns the environment value for key, or def when unset.
func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func main() {
	// .env is optional; flags below still win over the environment.
	_ = godotenv.Load()

	host := flag.String("host", envString("TRAILBOT_HOST", "localhost"), "Host to bind to (use 0.0.0.0 for all interfaces)")
	port := flag.Int("port", envInt("TRAILBOT_PORT", 8080), "Port to listen on")
	participant := flag.String("participant", envString("TRAILBOT_PARTICIPANT", "trailbot"), "Participant name reported to the game master")
	agentName := flag.String("agent-name", envString("TRAILBOT_AGENT_NAME", "trailbot"), "Agent name reported to the game master")
	cacheSize := flag.Int("cache-size", envInt("TRAILBOT_CACHE_SIZE", engine.DefaultCacheSize), "Flood-fill cache entries")
	panicDistance := flag.Int("panic-distance", engine.DefaultPanicDistance, "Horizontal head separation that triggers the escape phase")
	boostThreshold := flag.Int("boost-threshold", engine.DefaultBoostThreshold, "Minimum reachable space before a boost is spent")
	readTimeout := flag.Duration("read-timeout", 30*time.Second, "HTTP read timeout")
	writeTimeout := flag.Duration("write-timeout", 30*time.Second, "HTTP write timeout")
	logLevel := flag.String("log-level", envString("TRAILBOT_LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Parse()

	if *showVersion {
		fmt.Printf("trailbot v%s\n", version)
		os.Exit(0)
	}

	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
	logger = level.NewFilter(logger, levelOption(*logLevel))

	eng := engine.New(engine.Options{
		Logger:         logger,
		CacheSize:      uint32(*cacheSize),
		PanicDistance:  *panicDistance,
		BoostThreshold: *boostThreshold,
	})

	config := api.ServerConfig{
		Host:         *host,
		Port:         *port,
		ReadTimeout:  *readTimeout,
		WriteTimeout: *writeTimeout,
		IdleTimeout:  60 * time.Second,
		Participant:  *participant,
		AgentName:    *agentName,
	}

	server := api.NewServer(eng, config, version, logger)

	if err := server.ListenAndServeWithGracefulShutdown(); err != nil {
		level.Error(logger).Log("msg", "server error", "err", err)
		os.Exit(1)
	}
}

func levelOption(name string) level.Option {
	switch name {
	case "debug":
		return level.AllowDebug()
	case "warn":
		return level.AllowWarn()
	case "error":
		return level.AllowError()
	default:
		return level.AllowInfo()
	}
}
