package http

import (
	lbm "github.com/UnwiseGiraffeX86/Air-Tunnel/lbm-solver"
	"github.com/UnwiseGiraffeX86/Air-Tunnel/websocket"
)

var params websocket.HttpParams

// InitServer hosts the browser viewer and its websocket feed for the
// given solver. Blocks until the listener fails.
func InitServer(solver *lbm.Solver, address, root string) error {
	params = websocket.HttpParams{
		Address: address,
		Prefix:  "/",
		Root:    root,
	}
	return websocket.NewServer(solver, params).Run()
}

// GetParams returns the parameters of the last started server.
func GetParams() websocket.HttpParams {
	return params
}
