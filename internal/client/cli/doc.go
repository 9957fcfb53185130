// Package cli provides the interactive Relief console client.
//
// It wires configuration, durable storage, the connectivity signal and the
// application services, then runs a REPL that drives them the way the web
// front end would. Typical flow: restore the stored session, settle the
// initial connectivity state, publish the first content bundle, start the
// background watchers and execute user commands.
//
// Key features:
//   - Account: signup, login, logout, profile, password reset
//   - Catalog: services, FAQ and testimonials in English or Amharic
//   - Forms: booking, accommodation and contact requests
//   - Chat with the AI assistant
//   - Connectivity status, with manual toggling in -offline mode
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, App.Start and runREPL for details.
package cli
