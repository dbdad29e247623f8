package server

import "dealsadmin/pkg/contextx"

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Server joins the HTTP servers of the dashboard. Each one handles its own
// part of the routes.
type Server struct {
	AuthServer
	DealsServer
}

func NewServer(
	authServer AuthServer,
	dealsServer DealsServer,
) Server {
	return Server{
		AuthServer:  authServer,
		DealsServer: dealsServer,
	}
}
