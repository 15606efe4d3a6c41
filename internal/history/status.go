package history

import (
	"fmt"

	"github.com/pulsewatch/pulsewatch/schema"
)

// PrintHistoryStatus prints run history status information.
func PrintHistoryStatus(status schema.HistoryStatus) {
	fmt.Printf("History Backend: %s\n", status.Backend)
	if status.Backend == schema.NoneBackend {
		fmt.Println("Run history tracking is disabled.")
		return
	}
	fmt.Printf("Location: %s\n", status.Location)
	fmt.Printf("Total Runs: %d\n", status.RunCount)
	fmt.Printf("Total Incident Records: %d\n", status.IncidentCount)
	if status.SizeBytes > 0 {
		fmt.Printf("Database Size: %d bytes\n", status.SizeBytes)
	}
}
