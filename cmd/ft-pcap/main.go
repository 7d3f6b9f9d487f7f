package main

import (
	"bufio"
	"fmt"
	"log"
	"os"

	"FlowTally/pkg/pcap"
)

const flowLogHeader = "version,account-id,interface-id,srcaddr,dstaddr,srcport,dstport,protocol,packets,bytes,start,end,action,log-status\n"

func main() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: go run ./cmd/ft-pcap/main.go <path_to_pcap_file> <output_csv_file>")
		os.Exit(1)
	}
	pcapFilePath := os.Args[1]
	outputPath := os.Args[2]

	reader, err := pcap.NewReader(pcapFilePath)
	if err != nil {
		log.Fatalf("Failed to open pcap file: %v", err)
	}
	defer reader.Close()

	file, err := os.Create(outputPath)
	if err != nil {
		log.Fatalf("Failed to create output file '%s': %v", outputPath, err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if _, err := writer.WriteString(flowLogHeader); err != nil {
		log.Fatalf("Failed to write header to '%s': %v", outputPath, err)
	}

	log.Printf("Reading packets from '%s'...", pcapFilePath)

	records := make(chan string, 1000)
	go reader.ReadRecords(records)

	count := 0
	for record := range records {
		if _, err := writer.WriteString(record); err != nil {
			log.Fatalf("Failed to write record to '%s': %v", outputPath, err)
		}
		count++
	}

	if err := writer.Flush(); err != nil {
		log.Fatalf("Failed to flush output file '%s': %v", outputPath, err)
	}

	log.Printf("Wrote %d flow log records to %s", count, outputPath)
}
