package hcloud

import (
	"net"
	"strconv"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/fipctl/internal/fip"
)

// toServer maps an hcloud server. floating maps floating IP IDs to addresses.
func toServer(s *hcloud.Server, floating map[int64]string) *fip.Server {
	out := &fip.Server{
		ID:        strconv.FormatInt(s.ID, 10),
		Name:      s.Name,
		Addresses: make(map[string][]string),
	}

	var public []string
	if ip := s.PublicNet.IPv4.IP; !isUnset(ip) {
		public = append(public, ip.String())
	}
	if ip := s.PublicNet.IPv6.IP; !isUnset(ip) {
		public = append(public, ip.String())
	}
	if len(public) > 0 {
		out.Addresses[NetworkPublic] = public
	}

	for _, ref := range s.PublicNet.FloatingIPs {
		if ref == nil {
			continue
		}
		if addr, ok := floating[ref.ID]; ok {
			out.Addresses[NetworkFloating] = append(out.Addresses[NetworkFloating], addr)
		}
	}

	for _, pn := range s.PrivateNet {
		if pn.Network == nil {
			continue
		}
		key := networkPrivatePrefix + pn.Network.Name
		if pn.Network.Name == "" {
			key = networkPrivatePrefix + strconv.FormatInt(pn.Network.ID, 10)
		}
		var addrs []string
		if !isUnset(pn.IP) {
			addrs = append(addrs, pn.IP.String())
		}
		for _, alias := range pn.Aliases {
			addrs = append(addrs, alias.String())
		}
		out.Addresses[key] = addrs
	}

	return out
}

// toFloatingIP maps an hcloud floating IP, reading its pool from poolLabel.
func toFloatingIP(f *hcloud.FloatingIP, poolLabel string) *fip.FloatingIP {
	out := &fip.FloatingIP{
		ID:   strconv.FormatInt(f.ID, 10),
		Name: f.Name,
		Pool: f.Labels[poolLabel],
	}
	if !isUnset(f.IP) {
		out.Address = f.IP.String()
	}
	if f.Server != nil {
		out.InstanceID = strconv.FormatInt(f.Server.ID, 10)
	}
	return out
}

func isUnset(ip net.IP) bool {
	return len(ip) == 0 || ip.IsUnspecified()
}
