// Command facturasctl runs maintenance tasks against the facturas store.
package main

import "facturas/cmd/facturasctl/commands"

func main() {
	commands.Execute()
}
