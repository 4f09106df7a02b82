package db

import (
	"context"
	"sync"
	"time"

	"task-manager/backend/logging"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReconnectInterval je fiksna pauza između pokušaja ponovnog povezivanja.
// Nema backoff-a: veza se obnavlja u istom ritmu dok baza ne postane dostupna.
const ReconnectInterval = 5 * time.Second

// Mongo nadgleda konekciju ka bazi. Umesto globalnog klijenta, instanca se
// prosleđuje servisima, a health stanje je dostupno preko Healthy().
type Mongo struct {
	uri    string
	dbName string

	mu      sync.RWMutex
	client  *mongo.Client
	healthy bool

	stop chan struct{}
}

// Connect uspostavlja inicijalnu konekciju i pokreće monitor koji je
// obnavlja pri padu.
func Connect(uri, dbName string) (*Mongo, error) {
	m := &Mongo{
		uri:    uri,
		dbName: dbName,
		stop:   make(chan struct{}),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetMaxPoolSize(10))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	m.client = client
	m.healthy = true
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", uri)

	go m.monitor()

	return m, nil
}

// monitor periodično proverava vezu i pokušava reconnect dok ne uspe.
func (m *Mongo) monitor() {
	ticker := time.NewTicker(ReconnectInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), ReconnectInterval)
			err := m.currentClient().Ping(ctx, nil)
			cancel()

			if err == nil {
				if !m.Healthy() {
					logging.Logger.Info("Event ID: DB_RECONNECTED, Description: MongoDB connection re-established.")
				}
				m.setHealthy(true)
				continue
			}

			logging.Logger.Warnf("Event ID: DB_PING_FAILED, Description: MongoDB ping failed, attempting to reconnect: %v", err)
			m.setHealthy(false)
			m.reconnect()
		}
	}
}

func (m *Mongo) reconnect() {
	ctx, cancel := context.WithTimeout(context.Background(), ReconnectInterval)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(m.uri).SetMaxPoolSize(10))
	if err != nil {
		logging.Logger.Warnf("Event ID: DB_RECONNECT_FAILED, Description: MongoDB reconnect failed: %v", err)
		return
	}
	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Warnf("Event ID: DB_RECONNECT_FAILED, Description: MongoDB reconnect ping failed: %v", err)
		return
	}

	m.mu.Lock()
	old := m.client
	m.client = client
	m.healthy = true
	m.mu.Unlock()

	if old != nil {
		discCtx, discCancel := context.WithTimeout(context.Background(), ReconnectInterval)
		_ = old.Disconnect(discCtx)
		discCancel()
	}

	logging.Logger.Info("Event ID: DB_RECONNECTED, Description: MongoDB connection re-established.")
}

func (m *Mongo) currentClient() *mongo.Client {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.client
}

// Collection vraća kolekciju iz konfigurisane baze.
func (m *Mongo) Collection(name string) *mongo.Collection {
	return m.currentClient().Database(m.dbName).Collection(name)
}

// Healthy vraća poslednje poznato stanje konekcije.
func (m *Mongo) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.healthy
}

func (m *Mongo) setHealthy(v bool) {
	m.mu.Lock()
	m.healthy = v
	m.mu.Unlock()
}

// Disconnect zaustavlja monitor i zatvara konekciju.
func (m *Mongo) Disconnect(ctx context.Context) error {
	close(m.stop)
	return m.currentClient().Disconnect(ctx)
}
