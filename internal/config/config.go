package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации симуляции и сервера.
type Config struct {
	World    WorldConfig    `yaml:"world"`
	Physics  PhysicsConfig  `yaml:"physics"`
	Spawn    SpawnConfig    `yaml:"spawn"`
	Server   ServerConfig   `yaml:"server"`
	EventBus EventBusConfig `yaml:"eventbus"`
	Storage  StorageConfig  `yaml:"storage"`
}

// WorldConfig описывает генерацию мира и его слои.
type WorldConfig struct {
	Seed       int64   `yaml:"seed"`
	Size       int     `yaml:"size"`          // Сторона квадрата слоя в блоках
	LayerYs    []int   `yaml:"layer_offsets"` // Y-смещения слоёв, по возрастанию
	TreeCount  int     `yaml:"tree_count"`    // Деревьев на слой
	CoinCount  int     `yaml:"coin_count"`    // Монет на слой
	GuardRatio float64 `yaml:"guard_ratio"`   // Доля монет, охраняемых стражами
}

// PhysicsConfig содержит константы кинетики и коллизий.
// Скорости и ускорения в блоках/секунду, высоты в блоках.
type PhysicsConfig struct {
	TickRate      int     `yaml:"tick_rate"`       // Тиков в секунду
	Gravity       float64 `yaml:"gravity"`         // Блоков/с^2, вниз
	Friction      float64 `yaml:"friction"`        // Множитель горизонтальной скорости за тик
	MoveAccel     float64 `yaml:"move_accel"`      // Прирост скорости от ввода, блоков/с^2
	JumpPower     float64 `yaml:"jump_power"`      // Горизонтальная скорость прыжка, блоков/с
	StepHeight    float64 `yaml:"step_height"`     // Максимальный перепад, проходимый без прыжка
	SkyBandY      float64 `yaml:"sky_band_y"`      // Выше этой высоты коллизии отключены
	MaxFallSpeed  float64 `yaml:"max_fall_speed"`  // Предел скорости падения, блоков/с
	MineRange     float64 `yaml:"mine_range"`      // Дальность луча добычи/строительства
	RayStep       float64 `yaml:"ray_step"`        // Шаг марша луча
	PlaceKeepOut  float64 `yaml:"place_keep_out"`  // Минимальная дистанция установки блока от актёра
	CameraBack    float64 `yaml:"camera_back"`     // Отступ камеры позади актёра
	CameraHeight  float64 `yaml:"camera_height"`   // Высота камеры над актёром
	PlayerHalfX   float64 `yaml:"player_half_x"`   // Полуширина хитбокса игрока
	PlayerHalfZ   float64 `yaml:"player_half_z"`   // Полуглубина хитбокса игрока
	PlayerHeight  float64 `yaml:"player_height"`   // Высота хитбокса игрока
	PlayerHealth  int     `yaml:"player_health"`   // Стартовое здоровье игрока
	AttackRange   float64 `yaml:"attack_range"`    // Дальность атаки игрока
	AttackDamage  int     `yaml:"attack_damage"`   // Базовый урон игрока
	AttackCDTicks int     `yaml:"attack_cd_ticks"` // Кулдаун атаки игрока в тиках
}

// SpawnConfig управляет появлением монстров и их сложностью.
type SpawnConfig struct {
	BaseIntervalTicks int     `yaml:"base_interval_ticks"` // Стартовый интервал спауна
	MinIntervalTicks  int     `yaml:"min_interval_ticks"`  // Нижняя граница интервала
	IntervalPerKill   int     `yaml:"interval_per_kill"`   // На сколько тиков сокращается за убийство
	MaxAlive          int     `yaml:"max_alive"`           // Предел живых монстров
	KillsPerLevel     int     `yaml:"kills_per_level"`     // Убийств на +1 уровень новых монстров
	LevelCap          int     `yaml:"level_cap"`           // Максимальный уровень
	GuardRadius       float64 `yaml:"guard_radius"`        // Радиус патруля стража вокруг якоря
	AlertRadius       float64 `yaml:"alert_radius"`        // Радиус тревоги вокруг монеты
	AggroTicks        int     `yaml:"aggro_ticks"`         // Длительность режима Aggro
}

// ServerConfig содержит порты внешних интерфейсов.
type ServerConfig struct {
	RESTPort    int `yaml:"rest_port"`
	MetricsPort int `yaml:"metrics_port"`
}

// EventBusConfig настраивает шину событий.
type EventBusConfig struct {
	URL       string `yaml:"url"`    // nats://... ; пусто — in-memory шина
	Stream    string `yaml:"stream"` // Имя JetStream стрима
	Retention int    `yaml:"retention_hours"`
}

// StorageConfig настраивает персистентность мира.
type StorageConfig struct {
	DataPath          string `yaml:"data_path"`
	SaveIntervalTicks int    `yaml:"save_interval_ticks"`
}

// GetRESTPort возвращает REST порт с поддержкой fallback значений
func (s *ServerConfig) GetRESTPort() int {
	return getPortWithEnvFallback(s.RESTPort, "BLOCKFALL_REST_PORT", 8088)
}

// GetMetricsPort возвращает Prometheus метрики порт с поддержкой fallback значений
func (s *ServerConfig) GetMetricsPort() int {
	return getPortWithEnvFallback(s.MetricsPort, "BLOCKFALL_METRICS_PORT", 2112)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	if configPort > 0 {
		return configPort
	}

	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	return defaultPort
}

// Default возвращает конфигурацию со значениями по умолчанию.
// Константы подобраны под тик 30 Гц.
func Default() *Config {
	return &Config{
		World: WorldConfig{
			Seed:       1337,
			Size:       64,
			LayerYs:    []int{0, 40, 80},
			TreeCount:  24,
			CoinCount:  8,
			GuardRatio: 0.5,
		},
		Physics: PhysicsConfig{
			TickRate:      30,
			Gravity:       30.0,
			Friction:      0.85,
			MoveAccel:     40.0,
			JumpPower:     6.0,
			StepHeight:    0.55,
			SkyBandY:      20.0,
			MaxFallSpeed:  40.0,
			MineRange:     6.0,
			RayStep:       0.25,
			PlaceKeepOut:  1.5,
			CameraBack:    6.0,
			CameraHeight:  3.0,
			PlayerHalfX:   0.4,
			PlayerHalfZ:   0.4,
			PlayerHeight:  1.8,
			PlayerHealth:  100,
			AttackRange:   2.5,
			AttackDamage:  10,
			AttackCDTicks: 15,
		},
		Spawn: SpawnConfig{
			BaseIntervalTicks: 300,
			MinIntervalTicks:  90,
			IntervalPerKill:   10,
			MaxAlive:          12,
			KillsPerLevel:     5,
			LevelCap:          10,
			GuardRadius:       4.0,
			AlertRadius:       8.0,
			AggroTicks:        240,
		},
		Server: ServerConfig{},
		EventBus: EventBusConfig{
			Stream:    "EVENTS",
			Retention: 24,
		},
		Storage: StorageConfig{
			DataPath:          "data",
			SaveIntervalTicks: 9000,
		},
	}
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", пытается прочитать из ENV BLOCKFALL_CONFIG;
// при отсутствии файла возвращает дефолты.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("BLOCKFALL_CONFIG")
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
