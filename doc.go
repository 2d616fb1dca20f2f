// Package main provides the entry point of staffpanel, a web dashboard for a
// Discord staff guild. It serves the filtered member roster and applies batch
// role actions (commendations, demerits, reprimands, suspensions, summons)
// through the Discord bot API, logging every action to audit channels.
package main
