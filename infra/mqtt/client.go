package mqtt

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	coremon "github.com/kilianp07/seaplane/core/monitoring"
	coremqtt "github.com/kilianp07/seaplane/core/mqtt"
	"github.com/kilianp07/seaplane/infra/logger"
)

const (
	// DefaultDeliveryTopic receives one message per created delivery.
	DefaultDeliveryTopic = "seaplane/deliveries/created"
)

// Config defines the connection parameters for the Paho MQTT client.
type Config struct {
	Broker        string          `json:"broker"`
	ClientID      string          `json:"client_id"`
	Username      string          `json:"username"`
	Password      string          `json:"password"`
	DeliveryTopic string          `json:"delivery_topic"`
	RefreshTopic  string          `json:"refresh_topic"`
	UseTLS        bool            `json:"use_tls"`
	ClientCert    string          `json:"client_cert"`
	ClientKey     string          `json:"client_key"`
	CABundle      string          `json:"ca_bundle"`
	AuthMethod    string          `json:"auth_method"`
	QoS           map[string]byte `json:"qos"`
	LWTTopic      string          `json:"lwt_topic"`
	LWTPayload    string          `json:"lwt_payload"`
	LWTQoS        byte            `json:"lwt_qos"`
	LWTRetain     bool            `json:"lwt_retain"`
	MaxRetries    int             `json:"max_retries"`
	BackoffMS     int             `json:"backoff_ms"`
	TLSConfig     *tls.Config     `json:"-"`
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
}

// PahoPublisher implements coremqtt.Publisher using Eclipse Paho.
type PahoPublisher struct {
	cli           pahoClient
	deliveryTopic string
	refreshTopic  string
	qos           map[string]byte
	onRefresh     func()
	logger        logger.Logger
	maxRetries    int
	backoff       time.Duration
}

var _ coremqtt.Publisher = (*PahoPublisher)(nil)

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// NewPahoPublisher connects to the MQTT broker. When cfg.RefreshTopic is set
// and onRefresh is not nil, every message on that topic calls onRefresh.
func NewPahoPublisher(cfg Config, log logger.Logger, onRefresh func()) (*PahoPublisher, error) {
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.New("mqtt_client")
	}
	p := &PahoPublisher{
		deliveryTopic: cfg.DeliveryTopic,
		refreshTopic:  cfg.RefreshTopic,
		qos:           cfg.QoS,
		onRefresh:     onRefresh,
		logger:        log,
		maxRetries:    cfg.MaxRetries,
		backoff:       time.Duration(cfg.BackoffMS) * time.Millisecond,
	}
	if p.deliveryTopic == "" {
		p.deliveryTopic = DefaultDeliveryTopic
	}
	if p.maxRetries <= 0 {
		p.maxRetries = 3
	}
	if p.backoff <= 0 {
		p.backoff = 100 * time.Millisecond
	}

	opts.OnConnect = func(c paho.Client) {
		log.Infof("MQTT connected")
		p.subscribe(c)
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	p.cli = c
	return p, nil
}

func (p *PahoPublisher) subscribe(c pahoClient) {
	if p.refreshTopic == "" || p.onRefresh == nil {
		return
	}
	if token := c.Subscribe(p.refreshTopic, p.qosFor("refresh"), p.handleRefresh); token.Wait() && token.Error() != nil {
		p.logger.Errorf("subscribe %s: %v", p.refreshTopic, token.Error())
	}
}

func (p *PahoPublisher) handleRefresh(_ paho.Client, msg paho.Message) {
	p.logger.Debugf("refresh requested on %s", msg.Topic())
	p.onRefresh()
}

func (p *PahoPublisher) qosFor(kind string) byte {
	if q, ok := p.qos[kind]; ok {
		return q
	}
	return 0
}

// NewClientOptions builds mqtt client options from Config.
func NewClientOptions(cfg Config) (*paho.ClientOptions, error) {
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.AuthMethod == "username_password" || cfg.AuthMethod == "both" || cfg.AuthMethod == "" {
		if cfg.Username != "" {
			opts.SetUsername(cfg.Username)
		}
		if cfg.Password != "" {
			opts.SetPassword(cfg.Password)
		}
	}
	if cfg.UseTLS {
		tlsCfg, err := cfg.LoadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	if cfg.LWTTopic != "" {
		opts.SetWill(cfg.LWTTopic, cfg.LWTPayload, cfg.LWTQoS, cfg.LWTRetain)
	}
	return opts, nil
}

// LoadTLSConfig loads the TLS configuration from the file paths in the config.
func (c Config) LoadTLSConfig() (*tls.Config, error) {
	if c.TLSConfig != nil {
		return c.TLSConfig, nil
	}
	if c.ClientCert == "" || c.ClientKey == "" || c.CABundle == "" {
		return nil, fmt.Errorf("tls config requires client_cert, client_key and ca_bundle")
	}
	cert, err := tls.LoadX509KeyPair(c.ClientCert, c.ClientKey)
	if err != nil {
		return nil, fmt.Errorf("load cert: %w", err)
	}
	caBytes, err := os.ReadFile(c.CABundle)
	if err != nil {
		return nil, fmt.Errorf("read ca: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caBytes) {
		return nil, fmt.Errorf("no certificates in %s", c.CABundle)
	}
	return &tls.Config{Certificates: []tls.Certificate{cert}, RootCAs: pool, MinVersion: tls.VersionTLS12}, nil
}

// PublishDelivery sends ev to the delivery topic, retrying with exponential
// backoff. The final error is reported to the monitor.
func (p *PahoPublisher) PublishDelivery(ctx context.Context, ev coremqtt.DeliveryEvent) error {
	if p.cli == nil || !p.cli.IsConnected() {
		return coremqtt.ErrNotConnected
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	qos := p.qosFor("delivery")
	var publishErr error
retry:
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		token := p.cli.Publish(p.deliveryTopic, qos, false, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			p.logger.Infof("published delivery %s to %s", ev.DeliveryID, p.deliveryTopic)
			return nil
		}
		p.logger.Errorf("publish attempt %d failed: %v", attempt+1, publishErr)
		if attempt == p.maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			publishErr = ctx.Err()
			break retry
		case <-time.After(p.backoff * time.Duration(1<<attempt)):
		}
	}
	coremon.CaptureException(publishErr, map[string]string{
		"module":      "mqtt",
		"delivery_id": ev.DeliveryID,
		"vehicle":     ev.Vehicle,
	})
	return fmt.Errorf("publish delivery %s: %w", ev.DeliveryID, publishErr)
}

// Disconnect gracefully closes the MQTT connection.
func (p *PahoPublisher) Disconnect() {
	if p.cli != nil && p.cli.IsConnected() {
		p.cli.Disconnect(250)
	}
}
