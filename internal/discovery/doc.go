// Package discovery provides mDNS-based discovery of capture appliances.
//
// This package implements multicast DNS (mDNS) service discovery to
// automatically locate voxtap appliances on the local network. Appliances
// advertise themselves using the "_voxtap._tcp" service type.
//
// # Discovery Process
//
//  1. Broadcasts mDNS queries on the local network
//  2. Listens for service advertisements from appliances
//  3. Collects appliance information (instance name, hostname, IP, port)
//  4. Returns a list of discovered appliances after the timeout period
//
// # Usage Example
//
//	appliances, err := discovery.Scan(10 * time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, a := range appliances {
//	    fmt.Printf("Found: %s at %s:%d\n", a.Name, a.IP, a.Port)
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Appliances must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
//
// # Thread Safety
//
// This package is safe for concurrent use. Multiple discovery sessions can
// run simultaneously without interference.
package discovery
