/*
Reveng is an arbitrary-precision CRC calculator and algorithm finder.

Given a handful of message/CRC sample pairs, it enumerates every CRC
algorithm under the Williams parametric model that is consistent with
them. It also calculates CRCs under a given model, reverses model
descriptions, lists the preset catalog and reformats its inputs.

Mode switches (give exactly one):

	-c	calculate CRCs of the arguments
	-v	calculate reversed CRCs of the arguments
	-d	dump the parameters of the configured model
	-D	list the preset algorithms
	-e	echo (and reformat) the arguments
	-s	search for an algorithm fitting the arguments

Parameter options:

	-w WIDTH	register size in bits
	-p POLY		generator, or range start when searching with -q
	-P RPOLY	reversed generator polynomial (implies the width)
	-k KPOLY	generator in Koopman notation (implies the width)
	-i INIT		initial register value
	-x XOROUT	final register XOR value
	-q QPOLY	search range end polynomial
	-m MODEL	select a preset algorithm by name

Arguments are hexadecimal strings, most significant digit first, or
raw binary with -z, or filenames with -f ('-' reads standard input).
With -s each argument is one sample: the message with its CRC
appended.

A search first scans the preset catalog (skip with -F), then
brute-forces the parameter space (skip with -G). When neither -b nor
-l pins the bit order, both passes run twice, the second time with
RefIn and RefOut toggled and the samples reflected per character. The
exit status is 0 on success and 1 on any error, or when a search
produces no models.
*/
package main
