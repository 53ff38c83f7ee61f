// Env package loads logger configuration files.
//
// Files are looked up in every config directory (see resolvePaths) and
// merged in order, so a later directory overrides single fields of an
// earlier one.
//
// Usage:
//
//	var cfg log.Config
//	loader := env.NewLoader()
//	if err := loader.Load("sielog", &cfg); err != nil {
//		panic(err)
//	}
//
// or, for one explicit file,
//
//	load := env.MustFn(env.FromYAML[*log.Config]("/etc/app/sielog.yml"))
//	err := load(&cfg)
package env
