// Package mywaifulist provides a client for the MyWaifuList v1 REST API.
//
// MyWaifuList is a catalogue of anime characters, the series they appear in,
// and the users who like, trash and curate them. The API is read-only from this
// client's point of view.
//
// # Architecture
//
// A call travels through three parts:
//
//   - Executor: builds the authenticated GET and runs it on a WorkerPool; the
//     caller waits on a single result channel
//   - Mapper: Decode turns the RawResult into a value according to a Shape
//     (SingleOf, ListOf, PageOf), or into an API or mapping error
//   - Result: the success/failure union every accessor returns
//
// # Usage
//
//	client, err := mywaifulist.NewClient(
//		"your-api-key",
//		mywaifulist.WithLogger(logger),
//		mywaifulist.WithConnectTimeout(5*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close(context.Background())
//
//	res := client.GetWaifuByID(ctx, 1)
//	if res.IsFailure() {
//		log.Fatal(res.Failure())
//	}
//	fmt.Println(res.Value().Name)
//
// Endpoints the client does not wrap can be reached with Fetch:
//
//	res := mywaifulist.Fetch(ctx, client, "waifu?page=2", mywaifulist.PageOf[mywaifulist.FilteredWaifu]())
//
// # Error Handling
//
// Every failure is a *Error whose Kind is one of:
//
//   - ErrorKindTransport: connection, timeout, cancellation, closed client
//   - ErrorKindMapping: 2xx response whose body does not fit the requested shape
//   - ErrorKindAPI: non-2xx response, with the server's message when it sent one
//
// The kinds also match the sentinels ErrTransport, ErrMapping and ErrAPI:
//
//	if _, err := client.GetWaifu(ctx, "rem").Get(); errors.Is(err, mywaifulist.ErrAPI) {
//		// Handle API failure
//	}
//
// # Concurrency
//
// Requests queue in FIFO order behind a fixed number of workers (10 by
// default). The queue is unbounded and submitting never blocks. A Client is
// safe for concurrent use; Close stops the pool it created but never one
// supplied with WithWorkerPool.
package mywaifulist
