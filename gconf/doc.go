/*
Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each extension keeps its configuration as a single protobuf message stored
under the "_c:<package name>" key. Configuration can be loaded from the
genesis file using InitConfig and is validated before every write.
*/
package gconf
