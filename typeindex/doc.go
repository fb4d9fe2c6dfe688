// Package typeindex discovers which C# containers can carry inspector
// annotations by scanning source files.
//
// An [Index] starts from a set of seed base types ([DefaultSeeds]) and
// records every class and struct declaration it is given. [Index.Names]
// returns the seeds, every type deriving from a seed (directly or through
// other indexed types), and every type marked [Serializable]. The result
// feeds [tooltip.Generator.WithNames].
//
// Declarations are found with patterns, not a parser. Generic parameters
// and namespace qualifiers are stripped, so "Pool<T>" is indexed as "Pool"
// and "UnityEngine.MonoBehaviour" as "MonoBehaviour". Partial declarations
// spread over several files are merged.
//
// [Serializable]: https://learn.microsoft.com/dotnet/api/system.serializableattribute
package typeindex
