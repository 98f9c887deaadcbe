// mcpdrive drives a Google MCP server over stdio: it launches the
// server, performs the initialize handshake, and runs scripted tool
// sequences against it.
package main

func main() {
	Execute()
}
