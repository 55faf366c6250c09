package signal_test

import (
	"fmt"

	"github.com/delaneyj/turnsignal/signal"
)

func ExampleSignal() {
	var clicked signal.Signal[string]

	logger := clicked.ConnectFunc(func(button string) {
		fmt.Println("log:", button)
	})
	clicked.ConnectFunc(func(button string) {
		fmt.Println("ui:", button)
	})

	clicked.Emit("ok")
	logger.Disconnect()
	clicked.Emit("cancel")

	// Output:
	// ui: ok
	// log: ok
	// ui: cancel
}

func ExampleConnection_Take() {
	var changed signal.Signal[int]

	type view struct {
		onChange signal.Connection[int]
	}
	old := &view{}
	changed.ConnectInto(&old.onChange, func(v int) error {
		fmt.Println("changed to", v)
		return nil
	})

	// Hand the registration over to a new view without losing its place.
	fresh := &view{}
	fresh.onChange.Take(&old.onChange)

	changed.Emit(7)
	fmt.Println(old.onChange.Connected(), fresh.onChange.Connected())

	// Output:
	// changed to 7
	// false true
}
