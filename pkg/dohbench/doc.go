/*
Package dohbench contains functionality for measuring and ranking DNS-over-HTTPS (DoH) resolvers by latency.
A measurement is represented by Benchmark struct that is used to set up the list of servers and domains
and then execute it using Benchmark.Run. Each execution of Benchmark.Run returns slice of ServerResult,
one element per configured server in the order the servers were provided.

Every server is tested by its own goroutine. Domains of a single server are probed sequentially, after
a short warmup, with a timeout that shrinks on failures and is floored by the fastest observed response,
so that dead resolvers are abandoned quickly.
*/
package dohbench
