// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines the route table using Go 1.22+ routing.

# Routes

	POST /api/polls           create a poll
	GET  /api/polls/{id}      poll with current tally
	POST /api/polls/{id}/vote cast a vote
	GET  /api/polls/live      websocket tally stream
	GET  /health              health check

REST handlers are wrapped with request logging; the websocket endpoint
is not, since a single "request" there lives for the whole connection.
*/
package router
