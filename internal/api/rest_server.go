package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/annel0/funnyblocks/internal/auth"
	"github.com/annel0/funnyblocks/internal/eventbus"
	"github.com/annel0/funnyblocks/internal/logging"
	"github.com/annel0/funnyblocks/internal/middleware"
	"github.com/annel0/funnyblocks/internal/vec"
	"github.com/annel0/funnyblocks/internal/world"
	"github.com/annel0/funnyblocks/internal/world/block"
	"github.com/annel0/funnyblocks/internal/world/entity"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// RestServer представляет REST API сервер мира: просмотр состояния и админские действия
type RestServer struct {
	router    *gin.Engine
	server    *http.Server
	sim       *world.Simulation
	operators auth.Operators
	worldName string
	metrics   *ServerMetrics
	log       *logging.Logger
}

// Config содержит конфигурацию для REST сервера
type Config struct {
	Port       string                // порт для запуска сервера, ":8088"
	Simulation *world.Simulation     // симуляция мира
	Operators  auth.Operators        // учетные записи администраторов
	WorldName  string                // имя мира в ответах
	Registerer prometheus.Registerer // nil - регистр по умолчанию
	Gatherer   prometheus.Gatherer   // nil - регистр по умолчанию
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
	router.Use(otelgin.Middleware("rest_api"))
	router.Use(middleware.NewRequestLogger().Handler())

	promMw := middleware.NewPrometheusMiddleware("rest_api", config.Registerer)
	router.Use(promMw.Handler())
	promMw.RegisterMetricsEndpoint(router, config.Gatherer)

	rs := &RestServer{
		router:    router,
		sim:       config.Simulation,
		operators: config.Operators,
		worldName: config.WorldName,
		metrics:   NewServerMetrics(),
		log:       logging.GetAPILogger(),
	}
	rs.server = &http.Server{
		Addr:              config.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	rs.setupRoutes()
	return rs
}

// Handler возвращает http.Handler сервера (для тестов)
func (rs *RestServer) Handler() http.Handler {
	return rs.router
}

// setupRoutes настраивает маршруты REST API
func (rs *RestServer) setupRoutes() {
	rs.router.GET("/health", rs.handleHealth)

	api := rs.router.Group("/api")
	api.POST("/auth/login", rs.handleLogin)
	api.GET("/server", rs.handleServerInfo)
	api.GET("/portals", rs.handlePortals)
	api.GET("/blocks", rs.handleBlocks)
	api.GET("/entities/:id", rs.handleEntity)

	// Административные эндпоинты (JWT с правами администратора)
	admin := api.Group("/admin")
	admin.Use(rs.jwtMiddleware(), rs.adminMiddleware())
	{
		admin.POST("/characters", rs.handleSpawn)
		admin.POST("/move", rs.handleMove)
		admin.POST("/activate", rs.handleActivate)
		admin.POST("/place", rs.handlePlace)
		admin.POST("/destroy", rs.handleDestroy)
	}
}

// GenericResponse представляет общий ответ API
type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// LoginRequest представляет запрос на вход оператора
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SpawnRequest - создание персонажа
type SpawnRequest struct {
	Position vec.Vec3Float `json:"position"`
	Height   float64       `json:"height"`
}

// MoveRequest - шаг движения персонажа
type MoveRequest struct {
	EntityID uint64        `json:"entity_id" binding:"required"`
	Position vec.Vec3Float `json:"position"`
	Velocity vec.Vec3Float `json:"velocity"`
}

// ActivateRequest - взаимодействие персонажа с блоком
type ActivateRequest struct {
	Instigator uint64   `json:"instigator" binding:"required"`
	Target     vec.Vec3 `json:"target"`
}

// PlaceRequest - установка блока по имени типа
type PlaceRequest struct {
	Pos    vec.Vec3 `json:"pos"`
	Block  string   `json:"block" binding:"required"`
	Facing string   `json:"facing"`
}

// DestroyRequest - разрушение блока
type DestroyRequest struct {
	Pos vec.Vec3 `json:"pos"`
}

func (rs *RestServer) badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, GenericResponse{Success: false, Message: message})
}

func (rs *RestServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Unix(),
	})
}

// handleLogin выдает JWT оператору с верным паролем
func (rs *RestServer) handleLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		rs.badRequest(c, "Неверный формат запроса")
		return
	}

	if !rs.operators.Authenticate(req.Username, req.Password) {
		rs.log.Warn("неудачный вход оператора %q", req.Username)
		c.JSON(http.StatusUnauthorized, GenericResponse{
			Success: false,
			Message: "Неверное имя пользователя или пароль",
		})
		return
	}

	token, err := auth.GenerateJWT(req.Username, true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, GenericResponse{
			Success: false,
			Message: "Внутренняя ошибка сервера",
		})
		return
	}

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Вход выполнен",
		Data:    gin.H{"token": token, "operator": req.Username},
	})
}

func (rs *RestServer) handleServerInfo(c *gin.Context) {
	info := rs.metrics.Snapshot()
	info["name"] = "funnyblocks"
	info["world"] = rs.worldName
	info["status"] = "running"
	info["simulation"] = rs.sim.Stats()

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Информация о сервере",
		Data:    info,
	})
}

func (rs *RestServer) handlePortals(c *gin.Context) {
	state, version := rs.sim.PortalState()
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Состояние порталов",
		Data: gin.H{
			"phase":   state.Phase().String(),
			"version": version,
			"state":   state,
		},
	})
}

func (rs *RestServer) handleBlocks(c *gin.Context) {
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Типы блоков",
		Data:    block.Definitions(),
	})
}

func (rs *RestServer) handleEntity(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		rs.badRequest(c, "Неверный ID сущности")
		return
	}

	view, ok := rs.sim.Entity(entity.ID(id))
	if !ok {
		c.JSON(http.StatusNotFound, GenericResponse{
			Success: false,
			Message: fmt.Sprintf("Сущность %d не найдена", id),
		})
		return
	}
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "Сущность", Data: view})
}

func (rs *RestServer) handleSpawn(c *gin.Context) {
	var req SpawnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		rs.badRequest(c, "Неверный формат запроса")
		return
	}

	id := rs.sim.SpawnCharacter(req.Position, req.Height)
	rs.audit(c, "spawn", fmt.Sprintf("%d at %s", id, req.Position))
	c.JSON(http.StatusCreated, GenericResponse{
		Success: true,
		Message: "Персонаж создан",
		Data:    gin.H{"entity_id": id},
	})
}

// requireCharacter проверяет, что сущность существует и является персонажем
func (rs *RestServer) requireCharacter(c *gin.Context, id uint64) bool {
	view, ok := rs.sim.Entity(entity.ID(id))
	if !ok || view.Movement == nil {
		c.JSON(http.StatusNotFound, GenericResponse{
			Success: false,
			Message: fmt.Sprintf("Персонаж %d не найден", id),
		})
		return false
	}
	return true
}

func (rs *RestServer) accepted(c *gin.Context, message string) {
	c.JSON(http.StatusAccepted, GenericResponse{Success: true, Message: message})
}

func (rs *RestServer) handleMove(c *gin.Context) {
	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		rs.badRequest(c, "Неверный формат запроса")
		return
	}
	if !rs.requireCharacter(c, req.EntityID) {
		return
	}

	rs.sim.Submit(world.MoveInputEvent{
		EntityID: entity.ID(req.EntityID),
		Position: req.Position,
		Velocity: req.Velocity,
	})
	rs.accepted(c, "Движение поставлено в очередь")
}

func (rs *RestServer) handleActivate(c *gin.Context) {
	var req ActivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		rs.badRequest(c, "Неверный формат запроса")
		return
	}
	if !rs.requireCharacter(c, req.Instigator) {
		return
	}

	rs.sim.Submit(world.ActivateEvent{Instigator: entity.ID(req.Instigator), Target: req.Target})
	rs.audit(c, "activate", req.Target.String())
	rs.accepted(c, "Активация поставлена в очередь")
}

func (rs *RestServer) handlePlace(c *gin.Context) {
	var req PlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		rs.badRequest(c, "Неверный формат запроса")
		return
	}

	def, ok := block.LookupName(req.Block)
	if !ok {
		rs.badRequest(c, fmt.Sprintf("Неизвестный тип блока %q", req.Block))
		return
	}
	facing := block.SideTop
	if req.Facing != "" {
		if facing, ok = block.ParseSide(req.Facing); !ok {
			rs.badRequest(c, fmt.Sprintf("Неизвестная грань %q", req.Facing))
			return
		}
	}

	rs.sim.Submit(world.PlaceEvent{Pos: req.Pos, ID: def.ID, Facing: facing})
	rs.audit(c, "place", fmt.Sprintf("%s at %s", def.Name, req.Pos))
	rs.accepted(c, "Установка поставлена в очередь")
}

func (rs *RestServer) handleDestroy(c *gin.Context) {
	var req DestroyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		rs.badRequest(c, "Неверный формат запроса")
		return
	}

	rs.sim.Submit(world.DestroyEvent{Pos: req.Pos, Reason: "admin"})
	rs.audit(c, "destroy", req.Pos.String())
	rs.accepted(c, "Разрушение поставлено в очередь")
}

// audit публикует действие администратора в шину событий
func (rs *RestServer) audit(c *gin.Context, action, target string) {
	operator := c.GetString("operator")
	rs.log.Info("🛠 %s: %s %s", operator, action, target)
	err := eventbus.Emit(c.Request.Context(), "api", eventbus.TypeAdminAction, eventbus.PriorityNormal,
		eventbus.AdminActionPayload{Operator: operator, Action: action, Target: target})
	if err != nil {
		rs.log.Warn("событие %s не опубликовано: %v", action, err)
	}
}

// Start запускает REST сервер и блокируется до остановки
func (rs *RestServer) Start() error {
	rs.log.Info("🌐 REST API слушает %s", rs.server.Addr)
	if err := rs.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("rest server: %w", err)
	}
	return nil
}

// Stop плавно останавливает REST сервер
func (rs *RestServer) Stop(ctx context.Context) error {
	return rs.server.Shutdown(ctx)
}
