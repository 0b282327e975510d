package discovery

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/libp2p/go-libp2p"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/p2p/discovery/mdns"
	drouting "github.com/libp2p/go-libp2p/p2p/discovery/routing"
	"github.com/libp2p/go-libp2p/p2p/muxer/yamux"
	"github.com/libp2p/go-libp2p/p2p/net/connmgr"
	"github.com/libp2p/go-libp2p/p2p/security/noise"

	leveldb "github.com/ipfs/go-ds-leveldb"
	dht "github.com/libp2p/go-libp2p-kad-dht"
	pubsub "github.com/libp2p/go-libp2p-pubsub"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const mdnsServiceTag = "ots-go-calendar-registry.local"
const dhtNamespace = "ots-go-calendar-registry"

// Node runs a libp2p host that gossips and merges calendar server
// announcements into a shared Registry.
type Node struct {
	Host     host.Host
	Registry *Registry
	logger   *zap.Logger
	dataDir  string

	topic *pubsub.Topic
	sub   *pubsub.Subscription

	peerLimiters   map[peer.ID]*rate.Limiter
	peerLimitersMu sync.Mutex
}

// NewNode starts a libp2p host, joins the calendar-registry GossipSub
// topic, and starts the gossip read and announce loops. Peer discovery
// begins only when StartPeerDiscovery is called. seed is the node's
// initial calendar server list, typically Config.CalendarServers.
func NewNode(ctx context.Context, listenPort int, dataDir string, seed []string, logger *zap.Logger) (*Node, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	privKey, err := LoadOrCreateIdentity(dataDir)
	if err != nil {
		return nil, fmt.Errorf("discovery: load identity: %w", err)
	}

	cm, err := connmgr.NewConnManager(20, 50, connmgr.WithGracePeriod(time.Minute))
	if err != nil {
		return nil, fmt.Errorf("discovery: create connection manager: %w", err)
	}

	h, err := libp2p.New(
		libp2p.Identity(privKey),
		libp2p.ListenAddrStrings(fmt.Sprintf("/ip4/0.0.0.0/tcp/%d", listenPort)),
		libp2p.Security(noise.ID, noise.New),
		libp2p.Muxer(yamux.ID, yamux.DefaultTransport),
		libp2p.ConnectionManager(cm),
	)
	if err != nil {
		return nil, fmt.Errorf("discovery: create libp2p host: %w", err)
	}

	ps, err := pubsub.NewGossipSub(ctx, h)
	if err != nil {
		h.Close()
		return nil, fmt.Errorf("discovery: create gossipsub: %w", err)
	}
	topic, err := ps.Join(RegistryTopicName)
	if err != nil {
		h.Close()
		return nil, fmt.Errorf("discovery: join topic: %w", err)
	}
	sub, err := topic.Subscribe()
	if err != nil {
		h.Close()
		return nil, fmt.Errorf("discovery: subscribe topic: %w", err)
	}

	n := &Node{
		Host:         h,
		Registry:     NewRegistry(seed),
		logger:       logger,
		dataDir:      dataDir,
		topic:        topic,
		sub:          sub,
		peerLimiters: make(map[peer.ID]*rate.Limiter),
	}

	go n.readLoop(ctx)
	go n.announceLoop(ctx)

	return n, nil
}

// StartPeerDiscovery begins mDNS and Kademlia DHT peer discovery, bridging
// found peers into the registry's gossip channel.
func (n *Node) StartPeerDiscovery(ctx context.Context, enableMDNS bool, bootnodes []string) error {
	if enableMDNS {
		svc := mdns.NewMdnsService(n.Host, mdnsServiceTag, mdnsNotifee{host: n.Host, logger: n.logger})
		if err := svc.Start(); err != nil {
			n.logger.Warn("mDNS setup failed", zap.Error(err))
		}
	}

	ds, err := leveldb.NewDatastore(filepath.Join(n.dataDir, "dht-routing"), nil)
	if err != nil {
		return fmt.Errorf("discovery: open DHT datastore: %w", err)
	}

	kadDHT, err := dht.New(ctx, n.Host, dht.Mode(dht.ModeAutoServer), dht.Datastore(ds))
	if err != nil {
		return fmt.Errorf("discovery: create DHT: %w", err)
	}
	if err := kadDHT.Bootstrap(ctx); err != nil {
		return fmt.Errorf("discovery: bootstrap DHT: %w", err)
	}

	for _, bn := range bootnodes {
		addr, err := peer.AddrInfoFromString(bn)
		if err != nil {
			n.logger.Warn("invalid bootnode address", zap.String("addr", bn), zap.Error(err))
			continue
		}
		if err := n.Host.Connect(ctx, *addr); err != nil {
			n.logger.Warn("failed to connect to bootnode", zap.String("addr", bn), zap.Error(err))
		}
	}

	rd := drouting.NewRoutingDiscovery(kadDHT)
	go n.discoverLoop(ctx, rd)
	return nil
}

func (n *Node) discoverLoop(ctx context.Context, rd *drouting.RoutingDiscovery) {
	if _, err := rd.Advertise(ctx, dhtNamespace); err != nil {
		n.logger.Debug("DHT advertise error", zap.Error(err))
	}

	peerCh, err := rd.FindPeers(ctx, dhtNamespace)
	if err != nil {
		n.logger.Error("DHT find peers error", zap.Error(err))
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case pi, ok := <-peerCh:
			if !ok {
				return
			}
			if pi.ID == n.Host.ID() || pi.ID == "" {
				continue
			}
			if err := n.Host.Connect(ctx, pi); err != nil {
				n.logger.Debug("failed to connect to DHT peer", zap.String("peer", pi.ID.String()), zap.Error(err))
			}
		}
	}
}

// readLoop merges calendar announcements received from the gossip topic.
func (n *Node) readLoop(ctx context.Context) {
	self := n.Host.ID()
	for {
		msg, err := n.sub.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			n.logger.Error("discovery read error", zap.Error(err))
			continue
		}
		if msg.GetFrom() == self {
			continue
		}
		if !n.getPeerLimiter(msg.GetFrom()).Allow() {
			n.logger.Warn("peer rate limited", zap.String("peer", msg.GetFrom().String()))
			continue
		}
		announce, err := Decode(msg.Data)
		if err != nil {
			n.logger.Debug("invalid calendar announcement", zap.Error(err))
			continue
		}
		n.Registry.Merge(announce)
	}
}

// announceLoop periodically republishes this node's known servers so the
// registry converges across the swarm.
func (n *Node) announceLoop(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n.publish()
		}
	}
}

func (n *Node) publish() {
	data, err := Encode(n.Registry.Announce())
	if err != nil {
		n.logger.Warn("encode calendar announcement failed", zap.Error(err))
		return
	}
	if err := n.topic.Publish(context.Background(), data); err != nil {
		n.logger.Warn("publish calendar announcement failed", zap.Error(err))
	}
}

func (n *Node) getPeerLimiter(peerID peer.ID) *rate.Limiter {
	n.peerLimitersMu.Lock()
	defer n.peerLimitersMu.Unlock()

	if lim, ok := n.peerLimiters[peerID]; ok {
		return lim
	}

	if len(n.peerLimiters) >= 500 {
		for id := range n.peerLimiters {
			delete(n.peerLimiters, id)
			break
		}
	}

	lim := rate.NewLimiter(10, 20)
	n.peerLimiters[peerID] = lim
	return lim
}

// Close shuts down the node.
func (n *Node) Close() error {
	return n.Host.Close()
}

type mdnsNotifee struct {
	host   host.Host
	logger *zap.Logger
}

func (m mdnsNotifee) HandlePeerFound(pi peer.AddrInfo) {
	if pi.ID == m.host.ID() {
		return
	}
	if err := m.host.Connect(context.Background(), pi); err != nil {
		m.logger.Debug("failed to connect to mDNS peer", zap.Error(err))
	}
}
