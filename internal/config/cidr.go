package config

import (
	"encoding/binary"
	"fmt"
	"net/netip"
)

// CIDRSubnet calculates a subnet address given a network address, a netmask size increase, and a subnet number.
// This mimics the behavior of Terraform's cidrsubnet function. Only IPv4 is supported.
func CIDRSubnet(prefix string, newbits int, netnum int) (string, error) {
	network, err := parseIPv4Prefix(prefix)
	if err != nil {
		return "", err
	}

	newMaskSize := network.Bits() + newbits
	if newMaskSize > 32 {
		return "", fmt.Errorf("prefix extension of %d bits is too large for %s", newbits, prefix)
	}
	if netnum < 0 || netnum >= 1<<newbits {
		return "", fmt.Errorf("subnet number %d exceeds max subnets %d", netnum, 1<<newbits)
	}

	base := addrToUint32(network.Addr())
	// #nosec G115
	offset := uint32(netnum) << (32 - newMaskSize)

	return netip.PrefixFrom(uint32ToAddr(base+offset), newMaskSize).String(), nil
}

// CIDRHost calculates a full host IP address for a given network address and host number.
// Negative host numbers count from the end of the range, like Terraform's cidrhost.
func CIDRHost(prefix string, hostnum int) (string, error) {
	network, err := parseIPv4Prefix(prefix)
	if err != nil {
		return "", err
	}

	maxHosts := int64(1) << (32 - network.Bits())
	offset := int64(hostnum)
	if offset < 0 {
		offset += maxHosts
	}
	if offset < 0 || offset >= maxHosts {
		return "", fmt.Errorf("host number %d exceeds max hosts %d", hostnum, maxHosts)
	}

	// #nosec G115
	return uint32ToAddr(addrToUint32(network.Addr()) + uint32(offset)).String(), nil
}

// SplitSubnets carves pairs public and pairs private subnets out of prefix.
// Public subnets take the low indexes, private subnets follow them.
func SplitSubnets(prefix string, pairs int) (public, private []string, err error) {
	if pairs < 1 {
		return nil, nil, fmt.Errorf("subnet pairs must be at least 1, got %d", pairs)
	}
	for i := range pairs {
		pub, err := CIDRSubnet(prefix, subnetNewBits, i)
		if err != nil {
			return nil, nil, fmt.Errorf("public subnet %d: %w", i, err)
		}
		priv, err := CIDRSubnet(prefix, subnetNewBits, pairs+i)
		if err != nil {
			return nil, nil, fmt.Errorf("private subnet %d: %w", i, err)
		}
		public = append(public, pub)
		private = append(private, priv)
	}
	return public, private, nil
}

func parseIPv4Prefix(prefix string) (netip.Prefix, error) {
	p, err := netip.ParsePrefix(prefix)
	if err != nil {
		return netip.Prefix{}, fmt.Errorf("invalid CIDR prefix: %w", err)
	}
	if !p.Addr().Is4() {
		return netip.Prefix{}, fmt.Errorf("only IPv4 addresses are supported, got %s", prefix)
	}
	return p.Masked(), nil
}

func addrToUint32(a netip.Addr) uint32 {
	b := a.As4()
	return binary.BigEndian.Uint32(b[:])
}

func uint32ToAddr(v uint32) netip.Addr {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return netip.AddrFrom4(b)
}
