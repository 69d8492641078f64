package main

import "github.com/avelichko/todoflow/internal/app"

func main() {
	app.InitDefaultLogger()
	app.MustReadEnv()
	app.MustInitApplicationLogger()

	app.MustOpenStore()
	defer app.CloseStore()

	app.StartNotifier()
	defer app.StopNotifier()

	app.MustListenAndServeHTTP()
}
