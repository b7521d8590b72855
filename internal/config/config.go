package config

import (
	"flag"
	"io/ioutil"
	"time"

	"gopkg.in/yaml.v2"
	"moff.io/chia-walletconnect/internal/chia"
	"moff.io/chia-walletconnect/pkg/errors"
	"moff.io/chia-walletconnect/pkg/log"
)

// Configuration struct
type Configuration struct {
	HTTP             HTTP          `yaml:"http"`
	WalletConnect    WalletConnect `yaml:"walletconnect"`
	LogLevel         int           `yaml:"log_level"`
	SentryDSN        string        `yaml:"sentry_dsn"`
	LarkAlarmWebhook string        `yaml:"lark_alarm_webhook"`
	// LarkSilent is the minimum interval between two reports of one call site.
	LarkSilent time.Duration `yaml:"lark_silent"`
}

type HTTP struct {
	Listen         string        `yaml:"listen"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// MaxPendingRequests caps wallet requests waiting for the user at once.
	MaxPendingRequests int `yaml:"max_pending_requests"`
	// WalletRequestsPerSecond throttles form submissions, 0 disables it.
	WalletRequestsPerSecond int `yaml:"wallet_requests_per_second"`
}

type WalletConnect struct {
	SidecarURL     string        `yaml:"sidecar_url"`
	ChainID        string        `yaml:"chain_id"`
	ReconnectDelay time.Duration `yaml:"reconnect_delay"`
	PingInterval   time.Duration `yaml:"ping_interval"`
	Metadata       chia.Metadata `yaml:"metadata"`
}

// Default returns the configuration used for every field a file leaves out.
func Default() Configuration {
	return Configuration{
		HTTP: HTTP{
			Listen:             ":8080",
			RequestTimeout:     time.Minute * 5,
			MaxPendingRequests: 8,
		},
		WalletConnect: WalletConnect{
			SidecarURL:     "ws://127.0.0.1:8765/ws",
			ChainID:        chia.ChainTestnet,
			ReconnectDelay: time.Second * 3,
			PingInterval:   time.Second * 30,
			Metadata:       chia.DefaultMetadata,
		},
		LogLevel:   1,
		LarkSilent: time.Minute,
	}
}

// Validate rejects configurations the app can not start with.
func (c *Configuration) Validate() error {
	if c.WalletConnect.SidecarURL == "" {
		return errors.New("walletconnect.sidecar_url not present")
	}
	if c.WalletConnect.ChainID == "" {
		return errors.New("walletconnect.chain_id not present")
	}
	if id := c.WalletConnect.ChainID; id != chia.ChainMainnet && id != chia.ChainTestnet {
		return errors.Errorf("walletconnect.chain_id %q is neither %s nor %s", id, chia.ChainMainnet, chia.ChainTestnet)
	}
	if c.HTTP.Listen == "" {
		return errors.New("http.listen not present")
	}
	return nil
}

// Parse decodes a yaml document over the defaults.
func Parse(data []byte) (Configuration, error) {
	c := Default()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, errors.Wrap(err, "decode config")
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

func readConfig(path string) (Configuration, error) {
	log.Info("Starting to load configuration file ...")
	dat, err := ioutil.ReadFile(path)
	if err != nil {
		return Configuration{}, errors.Wrapf(err, "read config file %s", path)
	}
	return Parse(dat)
}

var Global *Configuration

// Read reads configuration information from yml.
func Read() {
	configFilePath := flag.String("config-path", "config.yml", "The path to the configuration file")
	flag.Parse()
	log.Infof("Loading configuration file from %s", *configFilePath)
	globalConfig, err := readConfig(*configFilePath)
	if err != nil {
		log.Fatal(err)
	}
	Global = &globalConfig
}
