package eventstore

import (
	"fmt"
	"strings"

	"github.com/huangsam/deeptime/schema"
)

// PrintEventStoreStatus prints event store status information.
func PrintEventStoreStatus(status schema.EventStoreStatus) {
	fmt.Printf("Events Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Events: %d\n", status.TotalEvents)
	if status.TotalEvents > 0 {
		fmt.Printf("Oldest Event: %s\n", status.Oldest)
		fmt.Printf("Newest Event: %s\n", status.Newest)
	}
	if len(status.Categories) > 0 {
		fmt.Printf("Categories: %s\n", strings.Join(status.Categories, ", "))
	}
}
