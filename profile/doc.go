// Package profile writes pprof profiles of a command run.
//
// Register the flags on the root command, then bracket execution with
// [Session.Start] and [Session.Stop]:
//
//	cfg := profile.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//
//	session := cfg.NewSession()
//	err := session.Start()
//	defer session.Stop()
//
// A CPU profile covers the time between Start and Stop. The heap profile
// is a snapshot taken by Stop.
package profile
