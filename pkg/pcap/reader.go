package pcap

import (
	"fmt"
	"log"
	"strconv"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"
)

// Reader reads packets from a pcap file and converts them into flow-log
// records, so captured traffic can feed the same pipeline as synthetic data.
type Reader struct {
	handle *pcap.Handle
}

// NewReader creates a new pcap reader for the given file path.
func NewReader(filePath string) (*Reader, error) {
	handle, err := pcap.OpenOffline(filePath)
	if err != nil {
		return nil, err
	}
	return &Reader{handle: handle}, nil
}

// Close closes the pcap handle.
func (r *Reader) Close() {
	r.handle.Close()
}

// ReadRecords reads all packets from the pcap file and sends one flow-log
// CSV line per decodable packet to the provided channel. It closes the
// channel when done.
func (r *Reader) ReadRecords(out chan<- string) {
	defer close(out)

	packetSource := gopacket.NewPacketSource(r.handle, r.handle.LinkType())
	for packet := range packetSource.Packets() {
		record, err := recordFromPacket(packet)
		if err != nil {
			// Unsupported packet types and corrupt data are logged
			// and skipped, mirroring the parser's drop policy.
			log.Printf("Skipping packet: %v", err)
			continue
		}
		out <- record
	}
}

// recordFromPacket extracts the IPv4 five-tuple from a packet and formats it
// as a single 14-field flow-log line. One packet becomes one record with a
// packet count of 1.
func recordFromPacket(packet gopacket.Packet) (string, error) {
	l := packet.Layer(layers.LayerTypeIPv4)
	if l == nil {
		return "", fmt.Errorf("not an IPv4 packet")
	}
	ip := l.(*layers.IPv4)

	var srcPort, dstPort uint16
	if l := packet.Layer(layers.LayerTypeTCP); l != nil {
		tcp := l.(*layers.TCP)
		srcPort = uint16(tcp.SrcPort)
		dstPort = uint16(tcp.DstPort)
	} else if l := packet.Layer(layers.LayerTypeUDP); l != nil {
		udp := l.(*layers.UDP)
		srcPort = uint16(udp.SrcPort)
		dstPort = uint16(udp.DstPort)
	} else {
		return "", fmt.Errorf("not a TCP or UDP packet")
	}

	timestamp := int64(0)
	length := len(packet.Data())
	if meta := packet.Metadata(); meta != nil {
		timestamp = meta.Timestamp.Unix()
		if meta.Length > 0 {
			length = meta.Length
		}
	}

	return fmt.Sprintf("2,000000000000,eni-pcap0000,%s,%s,%d,%d,%s,1,%d,%d,%d,ACCEPT,OK\n",
		ip.SrcIP, ip.DstIP, srcPort, dstPort,
		strconv.Itoa(int(ip.Protocol)), length, timestamp, timestamp), nil
}
