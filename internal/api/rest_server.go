package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/annel0/blockfall/internal/middleware"
	"github.com/annel0/blockfall/internal/sim"
)

// RestServer — наблюдательный REST API симуляции: снимки состояния,
// инъекция ввода и покупки. Вся запись состояния идёт через движок,
// который сериализует её относительно тиков.
type RestServer struct {
	router *gin.Engine
	engine *sim.Engine
	port   string
}

// Config содержит конфигурацию для REST сервера
type Config struct {
	Port   string
	Engine *sim.Engine
}

// NewRestServer создает новый REST API сервер
func NewRestServer(config Config) *RestServer {
	if config.Port == "" {
		config.Port = ":8088"
	}

	gin.SetMode(gin.ReleaseMode)

	router := gin.New()        // без стандартного logger/recovery
	router.Use(gin.Recovery()) // добавим только recovery

	// === Observability middleware ===
	loggerMw := middleware.NewRequestLogger()
	router.Use(loggerMw.Handler())

	router.Use(otelgin.Middleware("rest_api"))

	promMw := middleware.NewPrometheusMiddleware("rest_api")
	router.Use(promMw.Handler())
	promMw.RegisterMetricsEndpoint(router)

	server := &RestServer{
		router: router,
		engine: config.Engine,
		port:   config.Port,
	}
	server.setupRoutes()
	return server
}

// GenericResponse представляет общий ответ API
type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// setupRoutes настраивает маршруты REST API
func (rs *RestServer) setupRoutes() {
	rs.router.GET("/health", rs.handleHealth)

	api := rs.router.Group("/api")
	{
		api.GET("/status", rs.handleStatus)
		api.GET("/player", rs.handlePlayer)
		api.GET("/monsters", rs.handleMonsters)

		worldGroup := api.Group("/world")
		{
			worldGroup.GET("", rs.handleWorld)
			worldGroup.GET("/changed", rs.handleChangedBlocks)
			worldGroup.GET("/coins", rs.handleCoins)
			worldGroup.GET("/trees", rs.handleTrees)
		}

		input := api.Group("/input")
		{
			input.POST("/press", rs.handlePress)
			input.POST("/release", rs.handleRelease)
			input.POST("/look", rs.handleLook)
		}

		api.POST("/shop/buy", rs.handleBuy)
	}
}

// handleHealth проверка состояния сервера
func (rs *RestServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"tick":   rs.engine.Tick(),
		"time":   time.Now().Unix(),
	})
}

// handleStatus возвращает агрегированный снимок тика
func (rs *RestServer) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Снимок симуляции",
		Data:    rs.engine.Snapshot(),
	})
}

// handlePlayer возвращает состояние игрока
func (rs *RestServer) handlePlayer(c *gin.Context) {
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Состояние игрока",
		Data:    rs.engine.PlayerSnapshot(),
	})
}

// handleMonsters возвращает список живых монстров
func (rs *RestServer) handleMonsters(c *gin.Context) {
	monsters := rs.engine.MonsterSnapshots()
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Живые монстры",
		Data: map[string]interface{}{
			"monsters": monsters,
			"total":    len(monsters),
		},
	})
}

// handleWorld возвращает сводку по миру
func (rs *RestServer) handleWorld(c *gin.Context) {
	store := rs.engine.Store()
	blocks, broken, placed := store.Stats()

	layers := store.Layers().Layers()
	offsets := make([]int, 0, len(layers))
	for _, l := range layers {
		offsets = append(offsets, l.OffsetY)
	}

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Сводка мира",
		Data: map[string]interface{}{
			"blocks":        blocks,
			"broken":        broken,
			"placed":        placed,
			"layer_offsets": offsets,
			"trees":         len(store.Trees()),
			"coins":         len(store.Coins()),
		},
	})
}

// changedBlockView — блок в ответе /world/changed
type changedBlockView struct {
	Pos   [3]int `json:"pos"`
	Layer uint8  `json:"layer"`
	Kind  uint16 `json:"kind"`
	State string `json:"state"`
}

// handleChangedBlocks возвращает все отличия мира от генерации
func (rs *RestServer) handleChangedBlocks(c *gin.Context) {
	changed := rs.engine.Store().ChangedBlocks()
	views := make([]changedBlockView, 0, len(changed))
	for _, b := range changed {
		views = append(views, changedBlockView{
			Pos:   [3]int{b.Pos.X, b.Pos.Y, b.Pos.Z},
			Layer: uint8(b.Layer),
			Kind:  uint16(b.Kind),
			State: b.State.String(),
		})
	}

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Изменённые блоки",
		Data: map[string]interface{}{
			"blocks": views,
			"total":  len(views),
		},
	})
}

// handleCoins возвращает монеты мира
func (rs *RestServer) handleCoins(c *gin.Context) {
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Монеты мира",
		Data:    rs.engine.Store().Coins(),
	})
}

// handleTrees возвращает деревья мира
func (rs *RestServer) handleTrees(c *gin.Context) {
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Деревья мира",
		Data:    rs.engine.Store().Trees(),
	})
}

// actionRequest — запрос с именем действия; принимаются любые алиасы
type actionRequest struct {
	Action string `json:"action" binding:"required"`
}

// handlePress регистрирует нажатие действия
func (rs *RestServer) handlePress(c *gin.Context) {
	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, GenericResponse{
			Success: false,
			Message: "Неверный формат запроса",
		})
		return
	}

	action, ok := sim.ParseAction(req.Action)
	if !ok {
		c.JSON(http.StatusBadRequest, GenericResponse{
			Success: false,
			Message: fmt.Sprintf("Неизвестное действие: %q", req.Action),
		})
		return
	}

	rs.engine.Input().Press(action)
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Действие принято",
		Data:    map[string]string{"action": action.String()},
	})
}

// handleRelease снимает удерживаемое действие
func (rs *RestServer) handleRelease(c *gin.Context) {
	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, GenericResponse{
			Success: false,
			Message: "Неверный формат запроса",
		})
		return
	}

	action, ok := sim.ParseAction(req.Action)
	if !ok {
		c.JSON(http.StatusBadRequest, GenericResponse{
			Success: false,
			Message: fmt.Sprintf("Неизвестное действие: %q", req.Action),
		})
		return
	}

	rs.engine.Input().Release(action)
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Действие отпущено",
	})
}

// lookRequest — дельта поворота камеры в радианах
type lookRequest struct {
	DYaw   float64 `json:"dyaw"`
	DPitch float64 `json:"dpitch"`
}

// handleLook применяет поворот камеры
func (rs *RestServer) handleLook(c *gin.Context) {
	var req lookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, GenericResponse{
			Success: false,
			Message: "Неверный формат запроса",
		})
		return
	}

	rs.engine.Input().Look(req.DYaw, req.DPitch)
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "Камера повернута"})
}

// buyRequest — запрос покупки в магазине
type buyRequest struct {
	Kind string `json:"kind" binding:"required"` // damage|health|speed|escape
}

// handleBuy проводит покупку улучшения. Недостаток ресурсов — не
// ошибка протокола: success=false с кодом 200.
func (rs *RestServer) handleBuy(c *gin.Context) {
	var req buyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, GenericResponse{
			Success: false,
			Message: "Неверный формат запроса",
		})
		return
	}

	var ok bool
	switch req.Kind {
	case "damage":
		ok = rs.engine.BuyDamageUpgrade()
	case "health":
		ok = rs.engine.BuyHealthUpgrade()
	case "speed":
		ok = rs.engine.BuySpeedUpgrade()
	case "escape":
		ok = rs.engine.BuyEscapeCharge()
	default:
		c.JSON(http.StatusBadRequest, GenericResponse{
			Success: false,
			Message: fmt.Sprintf("Неизвестное улучшение: %q", req.Kind),
		})
		return
	}

	if !ok {
		c.JSON(http.StatusOK, GenericResponse{
			Success: false,
			Message: "Покупка отклонена",
		})
		return
	}
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Покупка проведена",
		Data:    rs.engine.PlayerSnapshot(),
	})
}

// Start запускает REST сервер
func (rs *RestServer) Start() error {
	return rs.router.Run(rs.port)
}

// Router возвращает роутер для тестов
func (rs *RestServer) Router() *gin.Engine {
	return rs.router
}
