package mqtt

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"errors"
	"math/big"
	"os"
	"testing"
	"time"

	"fmt"

	paho "github.com/eclipse/paho.mqtt.golang"

	coremon "github.com/kilianp07/seaplane/core/monitoring"
	coremqtt "github.com/kilianp07/seaplane/core/mqtt"
	"github.com/kilianp07/seaplane/infra/logger"
)

// helper to generate self-signed cert
func generateCert(t *testing.T) (certFile, keyFile, caFile string) {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("gen key: %v", err)
	}
	tmpl := x509.Certificate{SerialNumber: big.NewInt(1), Subject: pkix.Name{CommonName: "test"}, NotBefore: time.Now(), NotAfter: time.Now().Add(time.Hour)}
	der, err := x509.CreateCertificate(rand.Reader, &tmpl, &tmpl, &priv.PublicKey, priv)
	if err != nil {
		t.Fatalf("create cert: %v", err)
	}
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(priv)})

	dir := t.TempDir()
	certFile = dir + "/cert.pem"
	keyFile = dir + "/key.pem"
	caFile = dir + "/ca.pem"
	if err := os.WriteFile(certFile, certPEM, 0644); err != nil {
		t.Fatalf("write cert: %v", err)
	}
	if err := os.WriteFile(keyFile, keyPEM, 0644); err != nil {
		t.Fatalf("write key: %v", err)
	}
	if err := os.WriteFile(caFile, certPEM, 0644); err != nil {
		t.Fatalf("write ca: %v", err)
	}
	return
}

func TestLoadTLSConfig(t *testing.T) {
	cert, key, ca := generateCert(t)
	cfg := Config{UseTLS: true, ClientCert: cert, ClientKey: key, CABundle: ca}
	tlsCfg, err := cfg.LoadTLSConfig()
	if err != nil {
		t.Fatalf("load tls: %v", err)
	}
	if len(tlsCfg.Certificates) == 0 {
		t.Fatalf("no certs loaded")
	}
	if tlsCfg.RootCAs == nil {
		t.Fatalf("no root CAs")
	}
}

func TestNewClientOptionsAuth(t *testing.T) {
	opts, err := NewClientOptions(Config{Broker: "tcp://localhost:1883", ClientID: "id", Username: "u", Password: "p"})
	if err != nil {
		t.Fatalf("opts: %v", err)
	}
	if opts.Username != "u" || opts.Password != "p" {
		t.Fatalf("auth not set")
	}
}

func withMockClient(t *testing.T, mc *mockClient) {
	t.Helper()
	newMQTTClient = func(o *paho.ClientOptions) pahoClient { mc.opts = o; return mc }
	t.Cleanup(func() { newMQTTClient = func(opts *paho.ClientOptions) pahoClient { return paho.NewClient(opts) } })
}

func TestQoSSettings(t *testing.T) {
	mc := &mockClient{}
	withMockClient(t, mc)
	refreshed := 0
	cfg := Config{Broker: "tcp://localhost:1883", ClientID: "id", RefreshTopic: "seaplane/fleet/refresh",
		QoS: map[string]byte{"delivery": 2, "refresh": 1}}
	cli, err := NewPahoPublisher(cfg, logger.NopLogger{}, func() { refreshed++ })
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	if len(mc.subscribed) == 0 || mc.subscribed[0].qos != 1 || mc.subscribed[0].topic != "seaplane/fleet/refresh" {
		t.Fatalf("subscribe qos not applied")
	}
	if err := cli.PublishDelivery(context.Background(), coremqtt.DeliveryEvent{DeliveryID: "d-1"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(mc.published) == 0 || mc.published[0].qos != 2 || mc.published[0].topic != DefaultDeliveryTopic {
		t.Fatalf("publish qos not applied")
	}
	cli.handleRefresh(nil, mockMessage{[]byte("{}")})
	if refreshed != 1 {
		t.Fatalf("refresh handler not called")
	}
}

func TestNoRefreshSubscriptionWithoutHandler(t *testing.T) {
	mc := &mockClient{}
	withMockClient(t, mc)
	cfg := Config{Broker: "tcp://localhost:1883", ClientID: "id", RefreshTopic: "seaplane/fleet/refresh"}
	if _, err := NewPahoPublisher(cfg, logger.NopLogger{}, nil); err != nil {
		t.Fatalf("client: %v", err)
	}
	if len(mc.subscribed) != 0 {
		t.Fatalf("unexpected subscription")
	}
}

func TestPublishPayload(t *testing.T) {
	mc := &mockClient{}
	withMockClient(t, mc)
	cli, err := NewPahoPublisher(Config{Broker: "tcp://localhost:1883", ClientID: "id", DeliveryTopic: "d"}, logger.NopLogger{}, nil)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	ev := coremqtt.DeliveryEvent{EventID: "e1", DeliveryID: "d-1", Vehicle: "Skyhawk", OrderIDs: []string{"A"}, DistanceKm: 12.5}
	if err := cli.PublishDelivery(context.Background(), ev); err != nil {
		t.Fatalf("publish: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(mc.payloads[0], &got); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if got["delivery_id"] != "d-1" || got["vehicle"] != "Skyhawk" || got["total_distance_km"] != 12.5 {
		t.Fatalf("unexpected payload %v", got)
	}
}

func TestLWTConfigured(t *testing.T) {
	mc := &mockClient{}
	withMockClient(t, mc)
	cfg := Config{Broker: "tcp://localhost:1883", ClientID: "id", LWTTopic: "lwt", LWTPayload: "bye", LWTQoS: 1}
	cli, err := NewPahoPublisher(cfg, logger.NopLogger{}, nil)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	if !mc.opts.WillEnabled {
		t.Fatalf("will not enabled")
	}
	if mc.opts.WillTopic != "lwt" || string(mc.opts.WillPayload) != "bye" {
		t.Fatalf("will options incorrect")
	}
	cli.Disconnect()
	if len(mc.published) != 0 {
		t.Fatalf("unexpected publish on disconnect")
	}
}

func TestRetryLogic(t *testing.T) {
	mc := &mockClient{publishErrs: []error{fmt.Errorf("net fail"), nil}}
	withMockClient(t, mc)
	cfg := Config{Broker: "tcp://localhost:1883", ClientID: "id", MaxRetries: 1, BackoffMS: 1}
	cli, err := NewPahoPublisher(cfg, logger.NopLogger{}, nil)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	if err := cli.PublishDelivery(context.Background(), coremqtt.DeliveryEvent{DeliveryID: "d-1"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(mc.published) != 2 {
		t.Fatalf("expected retries")
	}
}

func TestPublishErrorCaptured(t *testing.T) {
	fail := fmt.Errorf("net fail")
	mc := &mockClient{publishErrs: []error{fail, fail}}
	withMockClient(t, mc)
	mon := &recordMonitor{}
	coremon.Init(mon)
	defer coremon.Init(coremon.NopMonitor{})

	cfg := Config{Broker: "tcp://localhost:1883", ClientID: "id", MaxRetries: 1, BackoffMS: 1}
	cli, err := NewPahoPublisher(cfg, logger.NopLogger{}, nil)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	err = cli.PublishDelivery(context.Background(), coremqtt.DeliveryEvent{DeliveryID: "d-1", Vehicle: "Skyhawk"})
	if !errors.Is(err, fail) {
		t.Fatalf("expected wrapped publish error, got %v", err)
	}
	if mon.err == nil {
		t.Fatalf("error not captured")
	}
	if mon.tags["delivery_id"] != "d-1" || mon.tags["module"] != "mqtt" {
		t.Fatalf("tags not set")
	}
}

func TestPublishStopsOnContextCancel(t *testing.T) {
	fail := fmt.Errorf("net fail")
	mc := &mockClient{publishErrs: []error{fail, fail, fail, fail}}
	withMockClient(t, mc)
	cfg := Config{Broker: "tcp://localhost:1883", ClientID: "id", MaxRetries: 3, BackoffMS: 1000}
	cli, err := NewPahoPublisher(cfg, logger.NopLogger{}, nil)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = cli.PublishDelivery(ctx, coremqtt.DeliveryEvent{DeliveryID: "d-1"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
	if len(mc.published) != 1 {
		t.Fatalf("expected a single attempt, got %d", len(mc.published))
	}
}

func TestPublishNotConnected(t *testing.T) {
	mc := &mockClient{disconnected: true}
	withMockClient(t, mc)
	cli, err := NewPahoPublisher(Config{Broker: "tcp://localhost:1883", ClientID: "id"}, logger.NopLogger{}, nil)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	if err := cli.PublishDelivery(context.Background(), coremqtt.DeliveryEvent{}); !errors.Is(err, coremqtt.ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
}

type recordMonitor struct {
	err  error
	tags map[string]string
}

func (r *recordMonitor) CaptureException(err error, tags map[string]string) {
	r.err = err
	r.tags = tags
}
func (r *recordMonitor) Recover()            {}
func (r *recordMonitor) Flush(time.Duration) {}

// mockClient implements pahoClient for tests
type mockClient struct {
	opts       *paho.ClientOptions
	subscribed []struct {
		topic string
		qos   byte
	}
	published []struct {
		topic string
		qos   byte
	}
	payloads     [][]byte
	publishErrs  []error
	disconnected bool
}

func (m *mockClient) IsConnected() bool { return !m.disconnected }
func (m *mockClient) Connect() paho.Token {
	if m.opts != nil && m.opts.OnConnect != nil {
		m.opts.OnConnect(m)
	}
	return &dummyToken{}
}
func (m *mockClient) Disconnect(uint) {}
func (m *mockClient) Publish(topic string, qos byte, _ bool, payload interface{}) paho.Token {
	if b, ok := payload.([]byte); ok {
		m.payloads = append(m.payloads, b)
	}
	m.published = append(m.published, struct {
		topic string
		qos   byte
	}{topic, qos})
	if len(m.publishErrs) > 0 {
		err := m.publishErrs[0]
		m.publishErrs = m.publishErrs[1:]
		return &dummyToken{err: err}
	}
	return &dummyToken{}
}
func (m *mockClient) Subscribe(topic string, qos byte, _ paho.MessageHandler) paho.Token {
	m.subscribed = append(m.subscribed, struct {
		topic string
		qos   byte
	}{topic, qos})
	return &dummyToken{}
}
func (m *mockClient) SubscribeMultiple(map[string]byte, paho.MessageHandler) paho.Token {
	return &dummyToken{}
}
func (m *mockClient) Unsubscribe(...string) paho.Token        { return &dummyToken{} }
func (m *mockClient) AddRoute(string, paho.MessageHandler)    {}
func (m *mockClient) OptionsReader() paho.ClientOptionsReader { return paho.ClientOptionsReader{} }
func (m *mockClient) IsConnectionOpen() bool                  { return true }

type dummyToken struct{ err error }

func (d dummyToken) Wait() bool                     { return true }
func (d dummyToken) WaitTimeout(time.Duration) bool { return true }
func (d dummyToken) Done() <-chan struct{}          { ch := make(chan struct{}); close(ch); return ch }
func (d dummyToken) Error() error                   { return d.err }

type mockMessage struct{ p []byte }

func (m mockMessage) Duplicate() bool   { return false }
func (m mockMessage) Qos() byte         { return 0 }
func (m mockMessage) Retained() bool    { return false }
func (m mockMessage) Topic() string     { return "" }
func (m mockMessage) MessageID() uint16 { return 0 }
func (m mockMessage) Payload() []byte   { return m.p }
func (m mockMessage) Ack()              {}
