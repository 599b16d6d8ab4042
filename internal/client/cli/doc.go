// Package cli implements the "budget" command tree.
//
// Commands
//
//	budget add expense <amount> <category> [--note] [--date] [--every]
//	budget add income <amount> <source> [--note] [--date] [--every]
//	budget queue list | queue clear
//	budget sync
//	budget watch
//	budget dashboard
//	budget profile show | profile set | profile avatar <file>
//	budget auth token
//	budget version
//
// Writes go straight to the API when it answers and into the offline queue
// otherwise. "watch" keeps a connectivity monitor running and replays the
// queue whenever the API becomes reachable again.
package cli
