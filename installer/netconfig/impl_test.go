package netconfig

import (
	"bytes"
	"net"
	"testing"

	"github.com/d2g/dhcp4"
	"github.com/openinstaller/installer/lib/log/testlogger"
)

func TestMakeInfo(t *testing.T) {
	packet := dhcp4.NewPacket(dhcp4.BootReply)
	packet.AddOption(dhcp4.OptionHostName, []byte("Target-Box"))
	packet.AddOption(dhcp4.OptionDomainNameServer,
		[]byte{10, 0, 0, 1, 10, 0, 0, 2})
	packet.AddOption(dhcp4.OptionDomainName, []byte("lab.example.com"))
	info := makeInfo(dhcpResponse{name: "eth0", packet: packet},
		testlogger.New(t))
	if info.Hostname != "target-box" {
		t.Errorf("hostname: %q", info.Hostname)
	}
	if info.Interface != "eth0" {
		t.Errorf("interface: %q", info.Interface)
	}
	if len(info.NameServers) != 2 ||
		!info.NameServers[0].Equal(net.IPv4(10, 0, 0, 1)) ||
		!info.NameServers[1].Equal(net.IPv4(10, 0, 0, 2)) {
		t.Errorf("name servers: %v", info.NameServers)
	}
	if len(info.SearchDomains) != 1 ||
		info.SearchDomains[0] != "lab.example.com" {
		t.Errorf("search domains: %v", info.SearchDomains)
	}
}

func TestWriteResolvConf(t *testing.T) {
	buffer := &bytes.Buffer{}
	err := WriteResolvConf(buffer, &Info{
		NameServers:   []net.IP{net.IPv4(10, 0, 0, 1)},
		SearchDomains: []string{"lab.example.com"},
	})
	if err != nil {
		t.Fatal(err)
	}
	expected := "search lab.example.com\nnameserver 10.0.0.1\n"
	if buffer.String() != expected {
		t.Errorf("got: %q", buffer.String())
	}
}
