package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/tmc/langchaingo/llms/ollama"
	"golang.org/x/sync/errgroup"

	"usaha-chatbot/catalog"
	"usaha-chatbot/chatlog"
	"usaha-chatbot/config"
	"usaha-chatbot/describe"
	"usaha-chatbot/geocode"
	"usaha-chatbot/intent"
)

type Agent struct {
	config   *config.Config
	store    *catalog.Store
	engine   *intent.Engine
	composer *describe.Composer
	recorder *chatlog.Recorder
	upgrader websocket.Upgrader
}

func main() {
	cfg := config.LoadConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := catalog.NewStore(cfg.Postgres.ConnStr())
	if err != nil {
		log.Fatal(err)
	}

	vocab := catalog.NewVocabulary(store)
	if err := vocab.Refresh(ctx); err != nil {
		log.Fatal(err)
	}

	nominatim := geocode.NewNominatim(&cfg.Nominatim)
	cache, err := geocode.NewCache(nominatim, &cfg.Geocode)
	if err != nil {
		log.Fatal(err)
	}

	chatLLM, err := ollama.New(
		ollama.WithServerURL(cfg.Ollama.Address()),
		ollama.WithModel(cfg.Ollama.ChatModel),
	)
	if err != nil {
		log.Fatal(err)
	}

	composer := describe.NewComposer(cache, chatLLM, &cfg.Describe)
	engine := intent.NewEngine(store, intent.NewVocabExtractor(vocab))

	recorder, err := chatlog.Open(cfg.ChatLog.Path)
	if err != nil {
		slog.Warn("chat logging disabled", "err", err)
		recorder = nil
	}

	// The stream feed is an optimization. Without it the vocabulary stays
	// as loaded at boot and the geocode cache fills on demand.
	if nc, err := NewNats(cfg); err != nil {
		slog.Warn("nats unavailable, vocabulary auto-refresh disabled", "err", err)
	} else {
		defer nc.Close()

		refresher := NewRefresher(vocab, cache, cfg.Vocab.Debounce)
		pool := NewWorkerPool(ctx, cfg.Vocab.Workers, cfg.Vocab.QueueSize, refresher.Handle)

		consumers := errgroup.Group{}
		for _, subject := range cfg.Nats.Subjects() {
			subject := subject
			consumers.Go(func() error {
				return nc.Subscribe(ctx, subject, pool)
			})
		}
		go func() {
			if err := consumers.Wait(); err != nil {
				slog.Error("change event consumer stopped", "err", err)
			}
		}()
	}

	agent := &Agent{
		config:   cfg,
		store:    store,
		engine:   engine,
		composer: composer,
		recorder: recorder,
		upgrader: websocket.Upgrader{},
	}

	if err := agent.Run(); err != nil {
		log.Fatalf("failed to run the agent: %v", err)
	}
}

func (a *Agent) Run() error {
	r := gin.Default()

	r.POST("/generate", func(ctx *gin.Context) {
		var req GenerateRequest

		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := req.Validate(); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		lat, err := describe.ParseCoordinate(req.Latitude)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		lon, err := describe.ParseCoordinate(req.Longitude)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		out := a.composer.Describe(ctx.Request.Context(), describe.Input{
			Name:     req.NamaTempat,
			Category: req.Kategori,
			Lat:      lat,
			Lon:      lon,
		})

		ctx.JSON(http.StatusOK, gin.H{
			"input":          req,
			"geocode":        out.Geocode,
			"lokasi_naratif": out.NarrativeLocation,
			"deskripsi":      out.Description,
		})
	})

	r.GET("/generate/stream", func(ctx *gin.Context) {
		req := GenerateRequest{
			NamaTempat: ctx.Query("nama_tempat"),
			Kategori:   ctx.Query("kategori"),
			Latitude:   ctx.Query("latitude"),
			Longitude:  ctx.Query("longitude"),
		}

		if err := req.Validate(); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		lat, err := describe.ParseCoordinate(req.Latitude)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		lon, err := describe.ParseCoordinate(req.Longitude)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		c, err := a.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
		if err != nil {
			log.Println("upgrade:", err)
			return
		}
		defer c.Close()

		reqCtx := ctx.Request.Context()

		out := a.composer.DescribeStream(reqCtx, describe.Input{
			Name:     req.NamaTempat,
			Category: req.Kategori,
			Lat:      lat,
			Lon:      lon,
		}, func(chunk []byte) error {
			select {
			case <-reqCtx.Done():
				return reqCtx.Err()
			default:
			}

			return c.WriteJSON(WebSocketsMessage{Type: "chunk", Data: string(chunk)})
		})

		if err := c.WriteJSON(WebSocketsMessage{Type: "result", Data: out}); err != nil {
			slog.Error("failed to write to ws connection", "error", err)
		}
	})

	r.POST("/chatbot/chat", func(ctx *gin.Context) {
		var req ChatRequest

		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := req.Validate(); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		resp := a.engine.Chat(ctx.Request.Context(), req.Message)

		if a.recorder != nil {
			if err := a.recorder.Record(ctx.Request.Context(), req.Message, resp); err != nil {
				slog.Warn("failed to record chat exchange", "err", err)
			}
		}

		ctx.JSON(http.StatusOK, resp)
	})

	r.GET("/chatbot/samples", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"success": true,
			"samples": a.engine.Samples(),
		})
	})

	r.GET("/health", func(ctx *gin.Context) {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()

		database := "ok"
		status := http.StatusOK
		if err := a.store.Ping(pingCtx); err != nil {
			database = "unreachable"
			status = http.StatusServiceUnavailable
		}

		ctx.JSON(status, gin.H{
			"status": database,
			"services": gin.H{
				"database": database,
			},
		})
	})

	return r.Run(a.config.Server.Address())
}
