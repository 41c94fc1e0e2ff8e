package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	analystx "github.com/tanpawarit/Trivium-Parallel-Research-Agent/agent/agents/analyst"
	directorx "github.com/tanpawarit/Trivium-Parallel-Research-Agent/agent/agents/director"
	contractx "github.com/tanpawarit/Trivium-Parallel-Research-Agent/agent/contract"
	llmx "github.com/tanpawarit/Trivium-Parallel-Research-Agent/agent/llm"
	statex "github.com/tanpawarit/Trivium-Parallel-Research-Agent/agent/state"
	toolx "github.com/tanpawarit/Trivium-Parallel-Research-Agent/agent/tool"
	warehousex "github.com/tanpawarit/Trivium-Parallel-Research-Agent/agent/warehouse"
	configx "github.com/tanpawarit/Trivium-Parallel-Research-Agent/pkg/config"
	_ "github.com/tanpawarit/Trivium-Parallel-Research-Agent/pkg/logger/autoload"
	openrouterx "github.com/tanpawarit/Trivium-Parallel-Research-Agent/pkg/openrouter"
	qstashx "github.com/tanpawarit/Trivium-Parallel-Research-Agent/pkg/qstash"
)

type AppConfig struct {
	BriefWebhookURL string `envconfig:"BRIEF_WEBHOOK_URL" split_words:"true"`
}

func main() {
	mode := "chat"
	if args := flagArgs(); len(args) > 0 {
		mode = args[0]
	}

	switch mode {
	case "chat":
		runChat()
	case "seed":
		runSeed()
	case "check":
		runCheck()
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q: want chat, seed, or check\n", mode)
		os.Exit(2)
	}
}

// flagArgs returns the positional arguments left after the config package's
// flag parsing, which runs during package init.
func flagArgs() []string {
	args := os.Args[1:]
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		if args[i] == "-env" || args[i] == "--env" {
			i++
			continue
		}
		if strings.HasPrefix(args[i], "-env=") || strings.HasPrefix(args[i], "--env=") {
			continue
		}
		out = append(out, args[i])
	}
	return out
}

func runChat() {
	ctx := context.Background()

	appCfg := configx.MustNew[AppConfig]("")
	llmCfg := configx.MustNew[llmx.Config]("OPENROUTER")
	warehouseCfg := configx.MustNew[warehousex.Config]("WAREHOUSE")
	upstashCfg := configx.MustNew[statex.UpstashRedisConfig]("UPSTASH")
	qstashCfg := configx.MustNew[qstashx.Config]("QSTASH")
	groupCfg := configx.MustNew[directorx.GroupConfig]("FANOUT")
	analystCfg := configx.MustNew[analystx.Config]("ANALYST")

	wh, err := warehousex.Open(*warehouseCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open warehouse")
	}
	defer wh.Close()

	store := newStore(*upstashCfg)
	gateway := toolx.NewExecutor(wh)

	registry, err := analystx.NewRegistry(ctx, *llmCfg, gateway, *analystCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("build analyst registry")
	}

	group, err := directorx.NewGroup(registry.Analysts(), *groupCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("build fan-out group")
	}

	var publisher contractx.BriefPublisher
	if qstashCfg.Enabled() && strings.TrimSpace(appCfg.BriefWebhookURL) != "" {
		client, err := qstashx.NewClient(*qstashCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("build qstash client")
		}
		publisher = &qstashBriefPublisher{
			client:      client,
			destination: strings.TrimSpace(appCfg.BriefWebhookURL),
		}
	}

	dir, err := directorx.New(store, registry, group, publisher)
	if err != nil {
		log.Fatal().Err(err).Msg("build director")
	}

	sessionID := uuid.NewString()
	log.Info().Str("session_id", sessionID).Msg("research session started")
	fmt.Println("Ask a question (empty line to exit):")

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			break
		}

		reply, err := dir.HandleQuery(ctx, sessionID, question)
		if err != nil {
			log.Error().Err(err).Msg("research turn failed")
			fmt.Println("Sorry, that turn failed. Try again.")
			continue
		}
		fmt.Println()
		fmt.Println(reply)
		fmt.Println()
	}
}

func runSeed() {
	ctx := context.Background()

	warehouseCfg := configx.MustNew[warehousex.Config]("WAREHOUSE")
	wh, err := warehousex.Open(*warehouseCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open warehouse")
	}
	defer wh.Close()

	rows, err := wh.Seed(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("seed warehouse")
	}
	fmt.Printf("Seeded %d daily sales rows\n", rows)
}

func runCheck() {
	ctx := context.Background()
	failed := false

	llmCfg := configx.MustNew[llmx.Config]("OPENROUTER")
	models, err := openrouterx.CheckReachable(ctx, llmCfg.OpenRouterFor(llmx.RoleSynthesizer))
	if err != nil {
		log.Error().Err(err).Msg("openrouter check failed")
		failed = true
	} else {
		fmt.Printf("OpenRouter reachable: %d models visible\n", models)
	}

	warehouseCfg := configx.MustNew[warehousex.Config]("WAREHOUSE")
	wh, err := warehousex.Open(*warehouseCfg)
	if err != nil {
		log.Error().Err(err).Msg("warehouse check failed")
		failed = true
	} else {
		defer wh.Close()
		rows, err := wh.Ping(ctx)
		if err != nil {
			log.Error().Err(err).Msg("warehouse query failed")
			failed = true
		} else {
			fmt.Printf("Warehouse reachable: %d daily sales rows\n", rows)
		}
	}

	if failed {
		os.Exit(1)
	}
}

func newStore(cfg statex.UpstashRedisConfig) statex.Store {
	if !cfg.Enabled() {
		log.Info().Msg("upstash not configured, using in-memory session store")
		return statex.NewMemoryStore()
	}
	store, err := statex.NewUpstashRedisStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("build upstash session store")
	}
	return store
}

// qstashBriefPublisher delivers finished briefs to a webhook through QStash.
type qstashBriefPublisher struct {
	client      *qstashx.Client
	destination string
}

func (p *qstashBriefPublisher) Publish(ctx context.Context, brief contractx.Brief) error {
	return p.client.PublishJSON(ctx, p.destination, brief)
}
