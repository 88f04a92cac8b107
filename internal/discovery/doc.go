// Package discovery locates admitform intake endpoints on the local network.
//
// An admitform-intake server advertises itself over multicast DNS with the
// "_admitform._tcp" service type and a TXT record naming its submission
// path. The desk client can browse for it instead of being configured
// with a URL, which is convenient when the intake runs on a laptop in the
// school office.
//
// # Usage Example
//
//	ep, err := discovery.FindEndpoint(ctx, 3*time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := submission.NewClient(ep.URL())
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - The intake must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
