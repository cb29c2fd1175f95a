// Copyright 2013 - 2015 Sebastian Ruml <sebastian.ruml@gmail.com>
// Copyright 2021 - 2022 Mendel Greenberg <mendel@chabad360.me>

//Package osc provides a receive-only server for OpenSoundControl messages.
//
//Open Sound Control (OSC) is an open, transport-independent, message-based protocol developed for communication among computers,
//sound synthesizers, and other multimedia devices.
//
//Features
//
//- Decodes OSC messages with the following TypeTags:
//
//	'i' (int32)
//	'f' (float32)
//	's' (string)
//
//- Dispatches one message to every registered handler whose address matches the message's address pattern.
//
//Messages
//
//A datagram carries one OSC message: a '/'-prefixed address pattern, a type tag string starting with ',',
//and one argument per type tag. Every argument starts on a 4 byte boundary counted from the start of the datagram.
//A datagram that does not start with '/' decodes to a message with an empty address and no arguments;
//it only reaches handlers registered for the empty address.
//
//Address patterns
//
//The pattern wildcards are translated into a regular expression that must match a registered address in full:
//
//	'*'      any run of characters
//	'?'      any single character
//	'{a,b}'  either a or b
//	'[!a-c]' any character except a, b or c
//
//Handlers
//
//A handler receives a Payload: empty for no arguments, a single Value for one argument,
//and the ordered list of Values for two or more.
//
//Usage
//
//OSC server example:
//  server := osc.NewServer("127.0.0.1:8765")
//  server.Handle("/message/address", func(p osc.Payload) {
//      fmt.Println(p)
//  })
//  server.ListenAndServe(context.Background())
package osc
