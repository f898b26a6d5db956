// hosts.go enumerates the local addresses a candidate port is verified
// against. The set is rebuilt on every top-level call so interface changes
// (VPN up/down, DHCP renew) are picked up without any caching logic.
package freeport

import "net"

// listHosts returns the addresses to probe: the unspecified address ""
// (meaning "let the OS choose default binding behavior"), the IPv4 wildcard
// 0.0.0.0, and the address of every non-loopback interface, deduplicated in
// discovery order.
//
// There is no error path. If interface enumeration fails the two defaults
// are still returned, which is enough to verify a bind on the common case.
func listHosts() []string {
	hosts := []string{"", "0.0.0.0"}
	seen := map[string]bool{"": true, "0.0.0.0": true}

	ifaces, err := net.Interfaces()
	if err != nil {
		return hosts
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}
			if ip == nil {
				continue
			}
			host := ip.String()
			if !seen[host] {
				seen[host] = true
				hosts = append(hosts, host)
			}
		}
	}
	return hosts
}
