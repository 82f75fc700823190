// Package dispatch selects, formats, chunks and delivers content.
//
// Two flows exist:
//   - DailyBroadcast: one random item per language to that language's channel.
//     Failures are isolated per language and reported as data.
//   - ListAll: header plus every item of one language to a single requester,
//     split into size-bounded chunks sent strictly in order.
//
// The Table (destinations and headers) is read-only after construction and
// shared without locking.
package dispatch
