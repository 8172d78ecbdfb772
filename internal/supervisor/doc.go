// Wanderfeed - Travel Trend Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderfeed

/*
Package supervisor provides process supervision for Wanderfeed using suture v4.

Every long-running component runs as a suture.Service under a four-layer
tree:

	RootSupervisor ("wanderfeed")
	├── DataSupervisor ("data-layer")
	│   ├── EventBusService (watermill router)
	│   └── workpool.Pool ("feed-refresh")
	├── ProcessingSupervisor ("processing-layer")
	│   ├── feed.Recommender
	│   └── TrendMaintenanceService (cron)
	├── MessagingSupervisor ("messaging-layer")
	│   └── websocket.Hub
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with suture's exponential backoff. A failure
in one layer is counted against that layer only.

Supervisor events are logged through sutureslog, bridged to zerolog by
logging.NewSlogLogger:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewEventBusService(bus, 10*time.Second))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	return tree.Serve(ctx)

Service wrappers live in the services subpackage.
*/
package supervisor
